package usecase

import (
	"context"
	"fmt"

	"github.com/hoopsync/nba-data-sync/external/nbastats"
	"github.com/hoopsync/nba-data-sync/internal/domain/boxscore"
	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	"github.com/hoopsync/nba-data-sync/internal/domain/player"
	"github.com/hoopsync/nba-data-sync/internal/domain/seasonstats"
	"github.com/hoopsync/nba-data-sync/internal/metrics"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

// AdvancedStatsService syncs the advanced measures: per-game player lines
// from the deep box score, season aggregates from the league dash.
type AdvancedStatsService struct {
	provider     StatsProvider
	gameRepo     game.Repository
	playerRepo   player.Repository
	advancedRepo boxscore.AdvancedStatsRepository
	seasonRepo   seasonstats.Repository
	logger       *logging.Logger
}

func NewAdvancedStatsService(
	provider StatsProvider,
	gameRepo game.Repository,
	playerRepo player.Repository,
	advancedRepo boxscore.AdvancedStatsRepository,
	seasonRepo seasonstats.Repository,
	logger *logging.Logger,
) *AdvancedStatsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AdvancedStatsService{
		provider:     provider,
		gameRepo:     gameRepo,
		playerRepo:   playerRepo,
		advancedRepo: advancedRepo,
		seasonRepo:   seasonRepo,
		logger:       logger,
	}
}

func (s *AdvancedStatsService) SyncGameAdvancedStats(ctx context.Context, gameID string) (*Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdvancedStatsService.SyncGameAdvancedStats")
	defer span.End()

	if gameID == "" {
		return nil, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if s.provider == nil || s.gameRepo == nil || s.playerRepo == nil || s.advancedRepo == nil {
		return nil, fmt.Errorf("%w: advanced stats sync is not fully wired", ErrDependencyUnavailable)
	}

	stored, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	result := newResult()

	lines, ok := s.provider.BoxScoreAdvanced(ctx, gameID)
	if !ok {
		s.logger.WarnContext(ctx, "skip advanced stats: box score unavailable", "game_id", gameID)
		result.skip("provider_unavailable", 1)
		return result, nil
	}

	knownPlayers, err := s.knownPlayerIDs(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]boxscore.GamePlayerAdvancedStat, 0, len(lines))
	for _, line := range lines {
		if line.PlayerID <= 0 {
			result.skip("malformed_row", 1)
			continue
		}
		if !knownPlayers[line.PlayerID] {
			result.skip("unknown_player", 1)
			continue
		}
		rows = append(rows, advancedFromLine(gameID, line))
	}

	synced, err := s.advancedRepo.UpsertAll(ctx, rows)
	if err != nil {
		s.logger.WarnContext(ctx, "bulk upsert failed, retrying row by row",
			"game_id", gameID, "rows", len(rows), "error", err)
		synced = 0
		for _, row := range rows {
			if rowErr := s.advancedRepo.Upsert(ctx, row); rowErr != nil {
				if result.Failed < 3 {
					s.logger.ErrorContext(ctx, "upsert advanced line failed",
						"game_id", gameID, "player_id", row.PlayerID, "error", rowErr)
				}
				result.Failed++
				continue
			}
			synced++
		}
	}
	result.Synced = synced
	metrics.RowsSynced.WithLabelValues("game_player_advanced_stats").Add(float64(synced))

	s.logger.InfoContext(ctx, "game advanced stats sync finished",
		"game_id", gameID,
		"synced", result.Synced,
		"skipped", result.SkippedTotal(),
		"failed", result.Failed,
	)

	return result, nil
}

// SyncSeasonAdvancedStats refreshes the season-level advanced aggregates.
// The player and team halves toggle independently so a task payload can
// target just one.
func (s *AdvancedStatsService) SyncSeasonAdvancedStats(ctx context.Context, season string, players, teams bool) (*Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdvancedStatsService.SyncSeasonAdvancedStats")
	defer span.End()

	if season == "" {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if s.provider == nil || s.seasonRepo == nil {
		return nil, fmt.Errorf("%w: season advanced sync is not fully wired", ErrDependencyUnavailable)
	}

	result := newResult()
	if !players && !teams {
		return result, nil
	}

	if players {
		playerRows, ok := s.provider.LeagueDashPlayerStats(ctx, season, nbastats.MeasureAdvanced)
		if !ok {
			s.logger.WarnContext(ctx, "skip player season advanced stats: dash unavailable", "season", season)
			result.skip("provider_unavailable", 1)
		} else {
			rows := make([]seasonstats.PlayerSeasonAdvancedStat, 0, len(playerRows))
			for _, row := range playerRows {
				stat, terr := playerSeasonAdvancedFromRow(row, season)
				if terr != nil {
					result.skip("malformed_row", 1)
					continue
				}
				rows = append(rows, stat)
			}
			synced, err := s.seasonRepo.UpsertPlayerAdvanced(ctx, rows)
			if err != nil {
				return nil, fmt.Errorf("upsert player season advanced stats: %w", err)
			}
			result.Synced += synced
			metrics.RowsSynced.WithLabelValues("player_season_advanced_stats").Add(float64(synced))
		}
	}

	if teams {
		teamRows, ok := s.provider.LeagueDashTeamStats(ctx, season, nbastats.MeasureAdvanced)
		if !ok {
			s.logger.WarnContext(ctx, "skip team season advanced stats: dash unavailable", "season", season)
			result.skip("provider_unavailable", 1)
		} else {
			rows := make([]seasonstats.TeamSeasonAdvancedStat, 0, len(teamRows))
			for _, row := range teamRows {
				stat, terr := teamSeasonAdvancedFromRow(row, season)
				if terr != nil {
					result.skip("malformed_row", 1)
					continue
				}
				rows = append(rows, stat)
			}
			synced, err := s.seasonRepo.UpsertTeamAdvanced(ctx, rows)
			if err != nil {
				return nil, fmt.Errorf("upsert team season advanced stats: %w", err)
			}
			result.Synced += synced
			metrics.RowsSynced.WithLabelValues("team_season_advanced_stats").Add(float64(synced))
		}
	}

	return result, nil
}

func (s *AdvancedStatsService) knownPlayerIDs(ctx context.Context) (map[int64]bool, error) {
	ids, err := s.playerRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list player ids: %w", err)
	}

	known := make(map[int64]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return known, nil
}
