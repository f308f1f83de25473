package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	"github.com/hoopsync/nba-data-sync/internal/domain/team"
	"github.com/hoopsync/nba-data-sync/internal/metrics"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

// TeamSyncService mirrors the franchise list from the provider's standings
// feed, the one endpoint that carries every team with city, code and
// conference in a single call.
type TeamSyncService struct {
	provider StatsProvider
	teamRepo team.Repository
	logger   *logging.Logger
	now      func() time.Time
}

func NewTeamSyncService(provider StatsProvider, teamRepo team.Repository, logger *logging.Logger) *TeamSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamSyncService{
		provider: provider,
		teamRepo: teamRepo,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *TeamSyncService) SyncTeams(ctx context.Context) (*Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamSyncService.SyncTeams")
	defer span.End()

	if s.provider == nil || s.teamRepo == nil {
		return nil, fmt.Errorf("%w: team sync is not fully wired", ErrDependencyUnavailable)
	}

	result := newResult()
	season := game.SeasonForDate(s.now().UTC())

	rows, ok := s.provider.LeagueStandings(ctx, season)
	if !ok {
		s.logger.WarnContext(ctx, "skip team sync: standings unavailable", "season", season)
		result.skip("provider_unavailable", 1)
		return result, nil
	}

	teams := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		t, err := teamFromStandingRow(row)
		if err != nil {
			s.logger.WarnContext(ctx, "skip malformed team row", "error", err)
			result.skip("malformed_row", 1)
			continue
		}
		teams = append(teams, t)
	}

	synced, err := s.teamRepo.UpsertAll(ctx, teams)
	if err != nil {
		// Bulk write failed; retry row by row so one bad team cannot sink
		// the other twenty-nine.
		synced = 0
		for _, t := range teams {
			if rowErr := s.teamRepo.Upsert(ctx, t); rowErr != nil {
				if result.Failed < 3 {
					s.logger.ErrorContext(ctx, "upsert team failed", "team_id", t.ID, "error", rowErr)
				}
				result.Failed++
				continue
			}
			synced++
		}
	}
	result.Synced = synced
	metrics.RowsSynced.WithLabelValues("teams").Add(float64(synced))

	s.verifyWrite(ctx, synced)

	s.logger.InfoContext(ctx, "team sync finished",
		"season", season,
		"synced", result.Synced,
		"skipped", result.SkippedTotal(),
		"failed", result.Failed,
	)

	return result, nil
}

// verifyWrite reads the table back so a silent write failure surfaces in
// the logs before every downstream sync starts skipping unknown teams.
func (s *TeamSyncService) verifyWrite(ctx context.Context, expected int) {
	ids, err := s.teamRepo.ListIDs(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "verification count failed", "error", err)
		return
	}
	if len(ids) >= expected {
		return
	}

	s.logger.ErrorContext(ctx, "verification mismatch",
		"expected", expected, "found", len(ids))

	sample, err := s.teamRepo.List(ctx, 5)
	if err != nil {
		s.logger.ErrorContext(ctx, "verification read failed", "error", err)
		return
	}
	for i, t := range sample {
		if i >= 3 {
			break
		}
		s.logger.WarnContext(ctx, "verification sample", "team_id", t.ID, "code", t.Code)
	}
}
