package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	"github.com/hoopsync/nba-data-sync/internal/domain/taskqueue"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
	"github.com/hoopsync/nba-data-sync/internal/usecase"
)

// Handlers binds each decoded task payload to its sync operation. Payloads
// arrive already validated; handlers only translate fields to service calls.
type Handlers struct {
	games     *usecase.GameSyncService
	gameStats *usecase.GameStatsService
	season    *usecase.SeasonStatsService
	advanced  *usecase.AdvancedStatsService
	wrapUp    *usecase.WrapUpService
	audit     *usecase.AuditService
	backfill  *usecase.BackfillService
	schedule  *usecase.ScheduleService
	logger    *logging.Logger
	now       func() time.Time
}

func NewHandlers(
	games *usecase.GameSyncService,
	gameStats *usecase.GameStatsService,
	season *usecase.SeasonStatsService,
	advanced *usecase.AdvancedStatsService,
	wrapUp *usecase.WrapUpService,
	audit *usecase.AuditService,
	backfill *usecase.BackfillService,
	schedule *usecase.ScheduleService,
	logger *logging.Logger,
) *Handlers {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handlers{
		games:     games,
		gameStats: gameStats,
		season:    season,
		advanced:  advanced,
		wrapUp:    wrapUp,
		audit:     audit,
		backfill:  backfill,
		schedule:  schedule,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *Handlers) Handle(ctx context.Context, payload taskqueue.Payload) error {
	switch p := payload.(type) {
	case taskqueue.SyncLiveGamePayload:
		return h.handleLiveGames(ctx, p)
	case taskqueue.SyncDateGamesPayload:
		return h.handleDateGames(ctx, p)
	case taskqueue.DailyWrapUpPayload:
		_, err := h.wrapUp.DailyWrapUp(ctx, usecase.WrapUpOptions{
			SyncStandings:   p.SyncStandings,
			SyncPlayerStats: p.SyncPlayerStats,
			SyncAdvanced:    p.SyncAdvanced,
		})
		return err
	case taskqueue.SyncPlayerStatsPayload:
		_, err := h.season.SyncSeasonStats(ctx, "")
		return err
	case taskqueue.SyncAdvancedStatsPayload:
		players := p.Players == nil || *p.Players
		teams := p.Teams == nil || *p.Teams
		_, err := h.advanced.SyncSeasonAdvancedStats(ctx, game.SeasonForDate(h.now()), players, teams)
		return err
	case taskqueue.DataAuditPayload:
		_, err := h.audit.RunAudit(ctx, p.AutoFix)
		return err
	case taskqueue.BackfillDataPayload:
		return h.handleBackfill(ctx, p)
	case taskqueue.CheckSchedulePayload:
		_, err := h.schedule.CheckSchedule(ctx)
		return err
	case taskqueue.FirstGameNotifiedPayload:
		// Marker row; consumers watch for its completion, nothing to do.
		h.logger.InfoContext(ctx, "first game marker acknowledged", "date", p.Date)
		return nil
	default:
		return fmt.Errorf("no handler for payload %T", payload)
	}
}

func (h *Handlers) handleLiveGames(ctx context.Context, p taskqueue.SyncLiveGamePayload) error {
	var firstErr error
	for _, gameID := range p.TargetGameIDs() {
		change, err := h.games.SyncSingleGame(ctx, gameID)
		if err != nil {
			h.logger.ErrorContext(ctx, "live game sync failed", "game_id", gameID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if change.NewStatus == game.StatusFinal {
			if _, err := h.gameStats.SyncGameStats(ctx, gameID); err != nil {
				h.logger.ErrorContext(ctx, "post-game stats sync failed", "game_id", gameID, "error", err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	return firstErr
}

func (h *Handlers) handleDateGames(ctx context.Context, p taskqueue.SyncDateGamesPayload) error {
	date, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return fmt.Errorf("parse date: %w", err)
	}
	withStats := p.WithStats == nil || *p.WithStats

	_, err = h.games.SyncGamesForDate(ctx, date, withStats)
	return err
}

func (h *Handlers) handleBackfill(ctx context.Context, p taskqueue.BackfillDataPayload) error {
	start, err := time.Parse("2006-01-02", p.StartDate)
	if err != nil {
		return fmt.Errorf("parse start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", p.EndDate)
	if err != nil {
		return fmt.Errorf("parse end date: %w", err)
	}
	withStats := p.WithStats == nil || *p.WithStats

	_, err = h.backfill.Backfill(ctx, start, end, withStats)
	return err
}
