package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	"github.com/hoopsync/nba-data-sync/internal/domain/notification"
	"github.com/hoopsync/nba-data-sync/internal/domain/taskqueue"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

// upcomingWindow is how far ahead a scheduled game counts as "starting soon".
const upcomingWindow = 30 * time.Minute

// ScheduleService is the CHECK_SCHEDULE heartbeat. Each run polls games that
// are live or about to tip off, deep-syncs them, and turns observed status
// transitions into notification rows and follow-up queue tasks.
type ScheduleService struct {
	gameRepo         game.Repository
	notificationRepo notification.Repository
	taskRepo         taskqueue.Repository
	games            *GameSyncService
	logger           *logging.Logger
	now              func() time.Time
}

func NewScheduleService(
	gameRepo game.Repository,
	notificationRepo notification.Repository,
	taskRepo taskqueue.Repository,
	games *GameSyncService,
	logger *logging.Logger,
) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ScheduleService{
		gameRepo:         gameRepo,
		notificationRepo: notificationRepo,
		taskRepo:         taskRepo,
		games:            games,
		logger:           logger,
		now:              time.Now,
	}
}

// CheckSchedule runs one heartbeat pass. TBD games are excluded by the
// repository query since their stored timestamp is a placeholder.
func (s *ScheduleService) CheckSchedule(ctx context.Context) (*Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.CheckSchedule")
	defer span.End()

	if s.gameRepo == nil || s.notificationRepo == nil || s.games == nil {
		return nil, fmt.Errorf("%w: schedule check is not fully wired", ErrDependencyUnavailable)
	}

	now := s.now()
	candidates, err := s.gameRepo.ListLiveOrUpcoming(ctx, now, upcomingWindow)
	if err != nil {
		return nil, fmt.Errorf("list live or upcoming games: %w", err)
	}

	result := newResult()
	if len(candidates) == 0 {
		s.logger.DebugContext(ctx, "schedule check: nothing live or upcoming")
		return result, nil
	}

	firstOfDay := true
	for _, g := range candidates {
		change, err := s.games.SyncSingleGame(ctx, g.ID)
		if err != nil {
			if result.Failed < 3 {
				s.logger.ErrorContext(ctx, "deep sync during schedule check failed",
					"game_id", g.ID, "error", err)
			}
			result.Failed++
			continue
		}
		result.Synced++

		if !change.Changed {
			firstOfDay = firstOfDay && change.NewStatus == game.StatusScheduled
			continue
		}

		switch change.NewStatus {
		case game.StatusLive:
			s.notify(ctx, notification.Notification{
				GameID:  g.ID,
				Kind:    notification.KindGameStart,
				Message: fmt.Sprintf("game %s has started", g.ID),
			}, result)
			if firstOfDay {
				s.markFirstGame(ctx, g, now, result)
			}
			firstOfDay = false
		case game.StatusFinal:
			s.notify(ctx, notification.Notification{
				GameID:  g.ID,
				Kind:    notification.KindGameEnd,
				Message: fmt.Sprintf("game %s has ended", g.ID),
			}, result)
			s.enqueueStatsFollowUp(ctx, g.ID, result)
		}
	}

	s.logger.InfoContext(ctx, "schedule check finished",
		"candidates", len(candidates),
		"synced", result.Synced,
		"skipped", result.SkippedTotal(),
		"failed", result.Failed,
	)

	return result, nil
}

func (s *ScheduleService) notify(ctx context.Context, n notification.Notification, result *Result) {
	written, err := s.notificationRepo.InsertUnique(ctx, n)
	if err != nil {
		s.logger.ErrorContext(ctx, "write notification failed",
			"game_id", n.GameID, "kind", n.Kind, "error", err)
		result.Failed++
		return
	}
	if !written {
		result.skip("notification_exists", 1)
	}
}

// markFirstGame records the first tip-off of the day and drops a marker task
// so downstream consumers see the date flip exactly once.
func (s *ScheduleService) markFirstGame(ctx context.Context, g game.Game, now time.Time, result *Result) {
	s.notify(ctx, notification.Notification{
		GameID:  g.ID,
		Kind:    notification.KindFirstGame,
		Message: fmt.Sprintf("first game of the day: %s", g.ID),
	}, result)

	if s.taskRepo == nil {
		return
	}
	payload, err := taskqueue.EncodePayload(taskqueue.FirstGameNotifiedPayload{
		Date: now.UTC().Format("2006-01-02"),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "encode first-game marker payload failed", "error", err)
		return
	}
	if _, err := s.taskRepo.Enqueue(ctx, taskqueue.TypeFirstGameNotified, payload); err != nil {
		s.logger.ErrorContext(ctx, "enqueue first-game marker failed", "error", err)
	}
}

// enqueueStatsFollowUp queues the box-score sync for a game that just went
// Final. Queueing instead of syncing inline keeps the heartbeat pass short.
func (s *ScheduleService) enqueueStatsFollowUp(ctx context.Context, gameID string, result *Result) {
	if s.taskRepo == nil {
		result.skip("follow_up_unwired", 1)
		return
	}

	payload, err := taskqueue.EncodePayload(taskqueue.SyncLiveGamePayload{GameID: gameID})
	if err != nil {
		s.logger.ErrorContext(ctx, "encode follow-up payload failed", "game_id", gameID, "error", err)
		result.Failed++
		return
	}
	id, err := s.taskRepo.Enqueue(ctx, taskqueue.TypeSyncLiveGame, payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "enqueue follow-up failed", "game_id", gameID, "error", err)
		result.Failed++
		return
	}

	s.logger.InfoContext(ctx, "queued stats follow-up", "game_id", gameID, "task_id", id)
}
