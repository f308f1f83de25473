// Package worker drains the durable task queue. The loop is deliberately
// single-threaded: one task at a time, claimed exclusively, terminated by
// the same process. Horizontal scale comes from running more workers.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hoopsync/nba-data-sync/internal/domain/taskqueue"
	"github.com/hoopsync/nba-data-sync/internal/metrics"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

// Config tunes the poll loop. Zero values fall back to the defaults the
// production deployment runs with.
type Config struct {
	PollInterval   time.Duration
	MaxIdleBackoff time.Duration
	MaxInfraErrors int
	PostTaskPause  time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 10 * time.Second
	}
	if c.MaxIdleBackoff <= 0 {
		c.MaxIdleBackoff = 5 * time.Minute
	}
	if c.MaxInfraErrors <= 0 {
		c.MaxInfraErrors = 5
	}
	if c.PostTaskPause < 0 {
		c.PostTaskPause = 0
	}
	return c
}

type Worker struct {
	tasks    taskqueue.Repository
	handlers *Handlers
	cfg      Config
	logger   *logging.Logger

	sleep func(time.Duration)
}

func New(tasks taskqueue.Repository, handlers *Handlers, cfg Config, logger *logging.Logger) *Worker {
	if logger == nil {
		logger = logging.Default()
	}

	return &Worker{
		tasks:    tasks,
		handlers: handlers,
		cfg:      cfg.withDefaults(),
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// Run polls until the context is cancelled or the queue itself becomes
// unreachable for MaxInfraErrors consecutive polls. Handler failures never
// stop the loop; they are persisted on the task and the loop moves on.
func (w *Worker) Run(ctx context.Context) error {
	infraErrors := 0

	for {
		if err := ctx.Err(); err != nil {
			w.logger.Info("worker stopping", "reason", err)
			return nil
		}

		task, err := w.tasks.NextPending(ctx)
		if err != nil {
			infraErrors++
			if infraErrors >= w.cfg.MaxInfraErrors {
				return fmt.Errorf("queue unreachable after %d polls: %w", infraErrors, err)
			}
			delay := w.infraBackoff(infraErrors)
			w.logger.ErrorContext(ctx, "poll failed",
				"error", err, "consecutive", infraErrors, "backoff", delay)
			w.sleep(delay)
			continue
		}
		infraErrors = 0

		if task == nil {
			w.sleep(w.cfg.PollInterval)
			continue
		}

		claimed, err := w.tasks.Claim(ctx, task.ID)
		if err != nil {
			infraErrors++
			if infraErrors >= w.cfg.MaxInfraErrors {
				return fmt.Errorf("claim failed %d times: %w", infraErrors, err)
			}
			w.sleep(w.infraBackoff(infraErrors))
			continue
		}
		if !claimed {
			// Another worker got there first; the next poll finds new work.
			metrics.QueueClaimRaces.Inc()
			continue
		}

		w.process(ctx, task)
		w.sleep(w.cfg.PostTaskPause)
	}
}

func (w *Worker) process(ctx context.Context, task *taskqueue.Task) {
	started := time.Now()
	w.logger.InfoContext(ctx, "task started", "task_id", task.ID, "task_type", task.Type)

	err := w.execute(ctx, task)

	elapsed := time.Since(started)
	metrics.TaskDuration.WithLabelValues(task.Type).Observe(elapsed.Seconds())
	if err != nil {
		metrics.TasksProcessed.WithLabelValues(task.Type, taskqueue.StatusFailed).Inc()
		w.logger.ErrorContext(ctx, "task failed",
			"task_id", task.ID, "task_type", task.Type, "elapsed", elapsed, "error", err)
		if markErr := w.tasks.MarkFailed(ctx, task.ID, err.Error()); markErr != nil {
			w.logger.ErrorContext(ctx, "mark failed did not stick", "task_id", task.ID, "error", markErr)
		}
		return
	}

	metrics.TasksProcessed.WithLabelValues(task.Type, taskqueue.StatusCompleted).Inc()
	w.logger.InfoContext(ctx, "task completed",
		"task_id", task.ID, "task_type", task.Type, "elapsed", elapsed)
	if markErr := w.tasks.MarkCompleted(ctx, task.ID); markErr != nil {
		w.logger.ErrorContext(ctx, "mark completed did not stick", "task_id", task.ID, "error", markErr)
	}
}

func (w *Worker) execute(ctx context.Context, task *taskqueue.Task) error {
	if !taskqueue.KnownType(task.Type) {
		return fmt.Errorf("unknown task type %q", task.Type)
	}

	payload, err := taskqueue.DecodePayload(task.Type, task.RawPayload)
	if err != nil {
		// A payload that cannot decode will never decode; terminal.
		return err
	}

	return w.handlers.Handle(ctx, payload)
}

// ExecuteDirect runs one task bypassing the queue, for the CLI's one-shot
// mode. The payload goes through the same decode and validation gate.
func (w *Worker) ExecuteDirect(ctx context.Context, taskType string, rawPayload []byte) error {
	return w.execute(ctx, &taskqueue.Task{Type: taskType, RawPayload: rawPayload})
}

func (w *Worker) infraBackoff(consecutive int) time.Duration {
	delay := w.cfg.PollInterval
	for i := 1; i < consecutive; i++ {
		delay *= 2
		if delay >= w.cfg.MaxIdleBackoff {
			return w.cfg.MaxIdleBackoff
		}
	}
	if delay > w.cfg.MaxIdleBackoff {
		return w.cfg.MaxIdleBackoff
	}
	return delay
}
