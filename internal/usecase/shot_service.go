package usecase

import (
	"context"
	"fmt"

	"github.com/hoopsync/nba-data-sync/internal/domain/boxscore"
	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	"github.com/hoopsync/nba-data-sync/internal/domain/shots"
	"github.com/hoopsync/nba-data-sync/internal/metrics"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

// ShotSyncService syncs shot-chart events. The provider only exposes charts
// per player and season, so a game sync walks the game's box score and
// filters each player's chart down to the target game.
type ShotSyncService struct {
	provider  StatsProvider
	gameRepo  game.Repository
	statsRepo boxscore.StatsRepository
	shotRepo  shots.Repository
	logger    *logging.Logger
}

func NewShotSyncService(
	provider StatsProvider,
	gameRepo game.Repository,
	statsRepo boxscore.StatsRepository,
	shotRepo shots.Repository,
	logger *logging.Logger,
) *ShotSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ShotSyncService{
		provider:  provider,
		gameRepo:  gameRepo,
		statsRepo: statsRepo,
		shotRepo:  shotRepo,
		logger:    logger,
	}
}

func (s *ShotSyncService) SyncShotsForGame(ctx context.Context, gameID string) (*Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ShotSyncService.SyncShotsForGame")
	defer span.End()

	if gameID == "" {
		return nil, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if s.provider == nil || s.gameRepo == nil || s.statsRepo == nil || s.shotRepo == nil {
		return nil, fmt.Errorf("%w: shot sync is not fully wired", ErrDependencyUnavailable)
	}

	stored, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	// Player stats are the roster of who actually appeared in the game.
	lines, err := s.statsRepo.ListForGame(ctx, gameID, 0)
	if err != nil {
		return nil, fmt.Errorf("list game player stats: %w", err)
	}

	result := newResult()
	if len(lines) == 0 {
		s.logger.WarnContext(ctx, "skip shot sync: no player stats for game", "game_id", gameID)
		result.skip("no_player_stats", 1)
		return result, nil
	}

	for _, line := range lines {
		chart, ok := s.provider.ShotChart(ctx, line.PlayerID, line.TeamID, stored.Season)
		if !ok {
			result.skip("chart_unavailable", 1)
			continue
		}

		rows := make([]shots.ShotEvent, 0, len(chart))
		for _, row := range chart {
			event, terr := shotFromRow(row)
			if terr != nil {
				result.skip("malformed_row", 1)
				continue
			}
			if event.GameID != gameID {
				continue
			}
			rows = append(rows, event)
		}
		if len(rows) == 0 {
			continue
		}

		if err := s.shotRepo.DeleteForPlayerGame(ctx, gameID, line.PlayerID); err != nil {
			return nil, fmt.Errorf("clear shots for player %d: %w", line.PlayerID, err)
		}

		synced, err := s.shotRepo.InsertAll(ctx, rows)
		if err != nil {
			s.logger.WarnContext(ctx, "bulk insert failed, retrying row by row",
				"game_id", gameID, "player_id", line.PlayerID, "rows", len(rows), "error", err)
			synced = 0
			for _, row := range rows {
				if rowErr := s.shotRepo.Insert(ctx, row); rowErr != nil {
					if result.Failed < 3 {
						s.logger.ErrorContext(ctx, "insert shot failed",
							"game_id", gameID, "event_id", row.GameEventID, "error", rowErr)
					}
					result.Failed++
					continue
				}
				synced++
			}
		}
		result.Synced += synced
	}
	metrics.RowsSynced.WithLabelValues("player_shots").Add(float64(result.Synced))

	s.logger.InfoContext(ctx, "shot sync finished",
		"game_id", gameID,
		"players", len(lines),
		"synced", result.Synced,
		"skipped", result.SkippedTotal(),
		"failed", result.Failed,
	)

	return result, nil
}
