package usecase

import (
	"context"
	"fmt"

	"github.com/hoopsync/nba-data-sync/external/nbastats"
	"github.com/hoopsync/nba-data-sync/internal/domain/boxscore"
	"github.com/hoopsync/nba-data-sync/internal/domain/fantasy"
	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	"github.com/hoopsync/nba-data-sync/internal/domain/player"
	"github.com/hoopsync/nba-data-sync/internal/metrics"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

// GameStatsService syncs per-game player box scores. The table has no
// natural per-row update key worth preserving, so each run replaces the
// game's rows wholesale and verifies the write afterwards.
type GameStatsService struct {
	provider   StatsProvider
	gameRepo   game.Repository
	playerRepo player.Repository
	statsRepo  boxscore.StatsRepository
	scoring    fantasy.ScoringConfig
	logger     *logging.Logger
}

func NewGameStatsService(
	provider StatsProvider,
	gameRepo game.Repository,
	playerRepo player.Repository,
	statsRepo boxscore.StatsRepository,
	scoring fantasy.ScoringConfig,
	logger *logging.Logger,
) *GameStatsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GameStatsService{
		provider:   provider,
		gameRepo:   gameRepo,
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
		scoring:    scoring,
		logger:     logger,
	}
}

func (s *GameStatsService) SyncGameStats(ctx context.Context, gameID string) (*Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameStatsService.SyncGameStats")
	defer span.End()

	if gameID == "" {
		return nil, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if s.provider == nil || s.gameRepo == nil || s.playerRepo == nil || s.statsRepo == nil {
		return nil, fmt.Errorf("%w: game stats sync is not fully wired", ErrDependencyUnavailable)
	}

	stored, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	result := newResult()

	box, ok := s.fetchBox(ctx, stored)
	if !ok {
		s.logger.WarnContext(ctx, "skip game stats: box score unavailable", "game_id", gameID)
		result.skip("provider_unavailable", 1)
		return result, nil
	}
	if len(box.Players) == 0 {
		s.logger.InfoContext(ctx, "box score has no player lines yet", "game_id", gameID)
		result.skip("empty_box_score", 1)
		return result, nil
	}

	knownPlayers, err := s.knownPlayerIDs(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]boxscore.GamePlayerStat, 0, len(box.Players))
	for _, line := range box.Players {
		if line.PlayerID <= 0 {
			result.skip("malformed_row", 1)
			continue
		}
		if !knownPlayers[line.PlayerID] {
			s.logger.WarnContext(ctx, "skip stat line: unknown player",
				"game_id", gameID, "player_id", line.PlayerID, "player_name", line.Name)
			result.skip("unknown_player", 1)
			continue
		}
		if stored.HomeTeamID > 0 && stored.AwayTeamID > 0 &&
			line.TeamID != stored.HomeTeamID && line.TeamID != stored.AwayTeamID {
			s.logger.WarnContext(ctx, "skip stat line: team not in game",
				"game_id", gameID, "player_id", line.PlayerID, "team_id", line.TeamID)
			result.skip("wrong_team", 1)
			continue
		}
		rows = append(rows, statFromPlayerLine(gameID, line, s.scoring))
	}

	if err := s.statsRepo.DeleteForGame(ctx, gameID); err != nil {
		return nil, fmt.Errorf("clear game stats: %w", err)
	}

	synced, err := s.statsRepo.InsertAll(ctx, rows)
	if err != nil {
		s.logger.WarnContext(ctx, "bulk insert failed, retrying row by row",
			"game_id", gameID, "rows", len(rows), "error", err)
		synced = 0
		for _, row := range rows {
			if rowErr := s.statsRepo.Insert(ctx, row); rowErr != nil {
				if result.Failed < 3 {
					s.logger.ErrorContext(ctx, "insert stat line failed",
						"game_id", gameID, "player_id", row.PlayerID, "error", rowErr)
				}
				result.Failed++
				continue
			}
			synced++
		}
	}
	result.Synced = synced
	metrics.RowsSynced.WithLabelValues("game_player_stats").Add(float64(synced))

	s.verifyWrite(ctx, gameID, synced)

	// The deep box score is also the freshest source for the game row itself.
	newStatus := game.StatusFromCode(box.StatusCode)
	if err := s.gameRepo.UpdateScoreStatus(ctx, gameID, box.HomeScore, box.AwayScore, newStatus); err != nil {
		s.logger.ErrorContext(ctx, "update game from box score failed", "game_id", gameID, "error", err)
	}

	s.logger.InfoContext(ctx, "game stats sync finished",
		"game_id", gameID,
		"synced", result.Synced,
		"skipped", result.SkippedTotal(),
		"failed", result.Failed,
	)

	return result, nil
}

func (s *GameStatsService) fetchBox(ctx context.Context, stored *game.Game) (*nbastats.BoxScore, bool) {
	if stored.Status == game.StatusLive {
		if box, ok := s.provider.LiveBoxScore(ctx, stored.ID); ok {
			return box, true
		}
	}
	if box, ok := s.provider.BoxScoreTraditional(ctx, stored.ID); ok {
		return box, true
	}
	return s.provider.LiveBoxScore(ctx, stored.ID)
}

func (s *GameStatsService) knownPlayerIDs(ctx context.Context) (map[int64]bool, error) {
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

// verifyWrite reads the rows back so a silent write failure surfaces in the
// logs before anyone queries an empty table.
func (s *GameStatsService) verifyWrite(ctx context.Context, gameID string, expected int) {
	count, err := s.statsRepo.CountForGame(ctx, gameID)
	if err != nil {
		s.logger.ErrorContext(ctx, "verification count failed", "game_id", gameID, "error", err)
		return
	}
	if count == expected {
		return
	}

	s.logger.ErrorContext(ctx, "verification mismatch",
		"game_id", gameID, "expected", expected, "found", count)

	sample, err := s.statsRepo.ListForGame(ctx, gameID, 5)
	if err != nil {
		s.logger.ErrorContext(ctx, "verification read failed", "game_id", gameID, "error", err)
		return
	}
	for i, row := range sample {
		if i >= 3 {
			break
		}
		s.logger.WarnContext(ctx, "verification sample",
			"game_id", gameID, "player_id", row.PlayerID, "points", row.Points)
	}
}
