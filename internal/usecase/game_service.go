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

// StatusChange reports what a single-game refresh did to the stored status.
type StatusChange struct {
	GameID    string
	OldStatus string
	NewStatus string
	Changed   bool
}

// GameSyncService keeps the games table in step with the provider's
// scoreboard. Date math runs in the configured operational timezone so
// "yesterday and today" track the US game night from anywhere.
type GameSyncService struct {
	provider StatsProvider
	gameRepo game.Repository
	teamRepo team.Repository
	stats    *GameStatsService
	loc      *time.Location
	logger   *logging.Logger
	now      func() time.Time
}

func NewGameSyncService(
	provider StatsProvider,
	gameRepo game.Repository,
	teamRepo team.Repository,
	stats *GameStatsService,
	loc *time.Location,
	logger *logging.Logger,
) *GameSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &GameSyncService{
		provider: provider,
		gameRepo: gameRepo,
		teamRepo: teamRepo,
		stats:    stats,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// SyncGames refreshes yesterday's and today's schedule. Yesterday first:
// late US games finish on the next calendar day in most timezones east of
// the provider.
func (s *GameSyncService) SyncGames(ctx context.Context, withStats bool) (*Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameSyncService.SyncGames")
	defer span.End()

	today := s.now().In(s.loc)
	total := newResult()
	for _, date := range []time.Time{today.AddDate(0, 0, -1), today} {
		result, err := s.SyncGamesForDate(ctx, date, withStats)
		if err != nil {
			return total, err
		}
		total.Synced += result.Synced
		total.Failed += result.Failed
		for reason, n := range result.Skipped {
			total.skip(reason, n)
		}
	}

	return total, nil
}

func (s *GameSyncService) SyncGamesForDate(ctx context.Context, date time.Time, withStats bool) (*Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameSyncService.SyncGamesForDate")
	defer span.End()

	if s.provider == nil || s.gameRepo == nil || s.teamRepo == nil {
		return nil, fmt.Errorf("%w: game sync is not fully wired", ErrDependencyUnavailable)
	}

	result := newResult()

	summaries, ok := s.provider.Scoreboard(ctx, date)
	if !ok {
		s.logger.WarnContext(ctx, "skip date sync: scoreboard unavailable", "date", date.Format("2006-01-02"))
		result.skip("provider_unavailable", 1)
		return result, nil
	}
	if len(summaries) == 0 {
		s.logger.InfoContext(ctx, "no games scheduled", "date", date.Format("2006-01-02"))
		return result, nil
	}

	knownTeams, err := s.knownTeamIDs(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	games := make([]game.Game, 0, len(summaries))
	var refetch []string
	for _, summary := range summaries {
		g, terr := gameFromSummary(summary)
		if terr != nil {
			s.logger.WarnContext(ctx, "skip malformed game row", "game_id", summary.GameID, "error", terr)
			result.skip("malformed_row", 1)
			continue
		}
		if !knownTeams[g.HomeTeamID] || !knownTeams[g.AwayTeamID] {
			s.logger.WarnContext(ctx, "skip game: unknown team",
				"game_id", g.ID, "home_team_id", g.HomeTeamID, "away_team_id", g.AwayTeamID)
			result.skip("unknown_team", 1)
			continue
		}

		g, needsRefetch := correctStatus(g, now)
		if needsRefetch {
			refetch = append(refetch, g.ID)
		}
		games = append(games, g)
	}

	synced, err := s.gameRepo.UpsertAll(ctx, games)
	if err != nil {
		synced = 0
		for _, g := range games {
			if rowErr := s.gameRepo.Upsert(ctx, g); rowErr != nil {
				if result.Failed < 3 {
					s.logger.ErrorContext(ctx, "upsert game failed", "game_id", g.ID, "error", rowErr)
				}
				result.Failed++
				continue
			}
			synced++
		}
	}
	result.Synced = synced
	metrics.RowsSynced.WithLabelValues("games").Add(float64(synced))

	s.verifyWrite(ctx, date, synced)

	// Rows the scoreboard left ambiguous get the deep per-game endpoint.
	for _, gameID := range refetch {
		if _, rerr := s.SyncSingleGame(ctx, gameID); rerr != nil {
			s.logger.WarnContext(ctx, "deep refetch failed", "game_id", gameID, "error", rerr)
		}
	}

	if withStats && s.stats != nil {
		for _, g := range games {
			// Past-dated rows get a stats attempt even when the scoreboard
			// status lags; a game that truly has no box score yet comes back
			// as a skip, not a failure.
			if g.Status != game.StatusFinal && !g.IsPast(now) {
				continue
			}
			if _, serr := s.stats.SyncGameStats(ctx, g.ID); serr != nil {
				s.logger.WarnContext(ctx, "game stats sync failed", "game_id", g.ID, "error", serr)
			}
		}
	}

	s.logger.InfoContext(ctx, "date sync finished",
		"date", date.Format("2006-01-02"),
		"synced", result.Synced,
		"skipped", result.SkippedTotal(),
		"failed", result.Failed,
	)

	return result, nil
}

// verifyWrite reads the day's rows back so a silent write failure surfaces
// in the logs before the stats pass runs against missing games.
func (s *GameSyncService) verifyWrite(ctx context.Context, date time.Time, expected int) {
	stored, err := s.gameRepo.ListByDate(ctx, date)
	if err != nil {
		s.logger.ErrorContext(ctx, "verification read failed",
			"date", date.Format("2006-01-02"), "error", err)
		return
	}
	if len(stored) >= expected {
		return
	}

	s.logger.ErrorContext(ctx, "verification mismatch",
		"date", date.Format("2006-01-02"), "expected", expected, "found", len(stored))
	for i, g := range stored {
		if i >= 3 {
			break
		}
		s.logger.WarnContext(ctx, "verification sample", "game_id", g.ID, "status", g.Status)
	}
}

// SyncSingleGame refreshes one game from the deep endpoint and reports the
// status transition. Live games use the CDN feed, which updates faster than
// the stats host.
func (s *GameSyncService) SyncSingleGame(ctx context.Context, gameID string) (*StatusChange, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameSyncService.SyncSingleGame")
	defer span.End()

	if gameID == "" {
		return nil, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	stored, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	box, ok := s.provider.LiveBoxScore(ctx, gameID)
	if !ok {
		box, ok = s.provider.BoxScoreSummary(ctx, gameID)
	}
	if !ok {
		return nil, fmt.Errorf("%w: game=%s", ErrProviderUnavailable, gameID)
	}

	newStatus := game.StatusFromCode(box.StatusCode)
	if err := s.gameRepo.UpdateScoreStatus(ctx, gameID, box.HomeScore, box.AwayScore, newStatus); err != nil {
		return nil, fmt.Errorf("update game score: %w", err)
	}

	change := &StatusChange{
		GameID:    gameID,
		OldStatus: stored.Status,
		NewStatus: newStatus,
		Changed:   stored.Status != newStatus,
	}
	if change.Changed {
		s.logger.InfoContext(ctx, "game status changed",
			"game_id", gameID, "from", change.OldStatus, "to", change.NewStatus)
	}

	return change, nil
}

func (s *GameSyncService) knownTeamIDs(ctx context.Context) (map[int64]bool, error) {
	ids, err := s.teamRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list team ids: %w", err)
	}

	known := make(map[int64]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return known, nil
}

// correctStatus fixes scoreboard rows that lag reality. A past game that
// already carries both scores is Final no matter what the provider's status
// code says; a past game still marked Scheduled without scores is ambiguous
// and flagged for a deep refetch. Future games are never promoted.
func correctStatus(g game.Game, now time.Time) (game.Game, bool) {
	if !g.IsPast(now) {
		return g, false
	}

	switch g.Status {
	case game.StatusFinal:
		return g, false
	case game.StatusLive:
		return g, false
	default:
		if g.HasScores() {
			g.Status = game.StatusFinal
			return g, false
		}
		return g, true
	}
}
