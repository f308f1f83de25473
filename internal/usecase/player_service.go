package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	"github.com/hoopsync/nba-data-sync/internal/domain/player"
	"github.com/hoopsync/nba-data-sync/internal/domain/team"
	"github.com/hoopsync/nba-data-sync/internal/metrics"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

// PlayerSyncService refreshes rosters team by team. A roster the provider
// cannot serve is skipped, not fatal: the next run picks it up.
type PlayerSyncService struct {
	provider   StatsProvider
	teamRepo   team.Repository
	playerRepo player.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewPlayerSyncService(
	provider StatsProvider,
	teamRepo team.Repository,
	playerRepo player.Repository,
	logger *logging.Logger,
) *PlayerSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerSyncService{
		provider:   provider,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *PlayerSyncService) SyncPlayers(ctx context.Context) (*Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerSyncService.SyncPlayers")
	defer span.End()

	if s.provider == nil || s.teamRepo == nil || s.playerRepo == nil {
		return nil, fmt.Errorf("%w: player sync is not fully wired", ErrDependencyUnavailable)
	}

	teamIDs, err := s.teamRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list team ids: %w", err)
	}
	if len(teamIDs) == 0 {
		return nil, fmt.Errorf("%w: no teams synced yet", ErrDependencyUnavailable)
	}

	result := newResult()
	season := game.SeasonForDate(s.now().UTC())

	for _, teamID := range teamIDs {
		rows, ok := s.provider.TeamRoster(ctx, teamID, season)
		if !ok {
			s.logger.WarnContext(ctx, "skip roster: provider unavailable", "team_id", teamID)
			result.skip("roster_unavailable", 1)
			continue
		}

		players := make([]player.Player, 0, len(rows))
		for _, row := range rows {
			p, perr := playerFromRosterRow(row, teamID)
			if perr != nil {
				result.skip("malformed_row", 1)
				continue
			}
			players = append(players, p)
		}

		synced, upErr := s.playerRepo.UpsertAll(ctx, players)
		if upErr != nil {
			synced = 0
			for _, p := range players {
				if rowErr := s.playerRepo.Upsert(ctx, p); rowErr != nil {
					if result.Failed < 3 {
						s.logger.ErrorContext(ctx, "upsert player failed",
							"player_id", p.ID, "team_id", teamID, "error", rowErr)
					}
					result.Failed++
					continue
				}
				synced++
			}
		}
		result.Synced += synced
	}
	metrics.RowsSynced.WithLabelValues("players").Add(float64(result.Synced))

	s.verifyWrite(ctx, result.Synced)

	s.logger.InfoContext(ctx, "player sync finished",
		"season", season,
		"teams", len(teamIDs),
		"synced", result.Synced,
		"skipped", result.SkippedTotal(),
		"failed", result.Failed,
	)

	return result, nil
}

// verifyWrite reads the table back so a silent write failure surfaces in
// the logs instead of as unknown_player skips during the next stats sync.
func (s *PlayerSyncService) verifyWrite(ctx context.Context, expected int) {
	ids, err := s.playerRepo.ListIDs(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "verification count failed", "error", err)
		return
	}
	if len(ids) >= expected {
		return
	}

	s.logger.ErrorContext(ctx, "verification mismatch",
		"expected", expected, "found", len(ids))

	sample, err := s.playerRepo.List(ctx, 5)
	if err != nil {
		s.logger.ErrorContext(ctx, "verification read failed", "error", err)
		return
	}
	for i, p := range sample {
		if i >= 3 {
			break
		}
		s.logger.WarnContext(ctx, "verification sample", "player_id", p.ID, "name", p.FullName())
	}
}
