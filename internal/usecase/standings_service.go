package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	"github.com/hoopsync/nba-data-sync/internal/domain/standings"
	"github.com/hoopsync/nba-data-sync/internal/domain/team"
	"github.com/hoopsync/nba-data-sync/internal/metrics"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

// StandingsSyncService syncs conference standings. Unknown team ids are
// skipped so the FK on team_standings never trips mid-batch.
type StandingsSyncService struct {
	provider      StatsProvider
	teamRepo      team.Repository
	standingsRepo standings.Repository
	logger        *logging.Logger
	now           func() time.Time
}

func NewStandingsSyncService(
	provider StatsProvider,
	teamRepo team.Repository,
	standingsRepo standings.Repository,
	logger *logging.Logger,
) *StandingsSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StandingsSyncService{
		provider:      provider,
		teamRepo:      teamRepo,
		standingsRepo: standingsRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// SyncStandings refreshes the standings table for the given season, or the
// current season when the argument is empty.
func (s *StandingsSyncService) SyncStandings(ctx context.Context, season string) (*Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsSyncService.SyncStandings")
	defer span.End()

	if s.provider == nil || s.teamRepo == nil || s.standingsRepo == nil {
		return nil, fmt.Errorf("%w: standings sync is not fully wired", ErrDependencyUnavailable)
	}
	if season == "" {
		season = game.SeasonForDate(s.now())
	}

	result := newResult()

	standingRows, ok := s.provider.LeagueStandings(ctx, season)
	if !ok {
		s.logger.WarnContext(ctx, "skip standings: provider unavailable", "season", season)
		result.skip("provider_unavailable", 1)
		return result, nil
	}

	teamIDs, err := s.teamRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list team ids: %w", err)
	}
	if len(teamIDs) == 0 {
		return nil, fmt.Errorf("%w: no teams synced yet", ErrDependencyUnavailable)
	}
	known := make(map[int64]bool, len(teamIDs))
	for _, id := range teamIDs {
		known[id] = true
	}

	rows := make([]standings.TeamStanding, 0, len(standingRows))
	for _, row := range standingRows {
		standing, terr := standingFromRow(row, season)
		if terr != nil {
			result.skip("malformed_row", 1)
			continue
		}
		if !known[standing.TeamID] {
			s.logger.WarnContext(ctx, "skip standings row for unknown team",
				"team_id", standing.TeamID, "season", season)
			result.skip("unknown_team", 1)
			continue
		}
		rows = append(rows, standing)
	}

	synced, err := s.standingsRepo.UpsertAll(ctx, rows)
	if err != nil {
		s.logger.WarnContext(ctx, "bulk upsert failed, retrying row by row",
			"season", season, "rows", len(rows), "error", err)
		synced = 0
		for _, row := range rows {
			if rowErr := s.standingsRepo.Upsert(ctx, row); rowErr != nil {
				if result.Failed < 3 {
					s.logger.ErrorContext(ctx, "upsert standing failed",
						"team_id", row.TeamID, "season", season, "error", rowErr)
				}
				result.Failed++
				continue
			}
			synced++
		}
	}
	result.Synced = synced
	metrics.RowsSynced.WithLabelValues("team_standings").Add(float64(synced))

	s.logger.InfoContext(ctx, "standings sync finished",
		"season", season,
		"synced", result.Synced,
		"skipped", result.SkippedTotal(),
		"failed", result.Failed,
	)

	return result, nil
}
