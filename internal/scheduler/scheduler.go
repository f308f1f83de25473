// Package scheduler is the optional in-process task producer. Deployments
// with an external producer (or several workers sharing one queue) leave it
// disabled; a single self-contained worker turns it on to feed itself.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/hoopsync/nba-data-sync/internal/domain/taskqueue"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

type Config struct {
	CheckScheduleSpec string
	DailyWrapUpSpec   string
}

// Producer enqueues the recurring heartbeat and wrap-up tasks on cron
// schedules. It only writes queue rows; the worker loop picks them up like
// any externally produced task.
type Producer struct {
	tasks  taskqueue.Repository
	cron   *cron.Cron
	logger *logging.Logger
}

func NewProducer(tasks taskqueue.Repository, cfg Config, logger *logging.Logger) (*Producer, error) {
	if logger == nil {
		logger = logging.Default()
	}

	p := &Producer{
		tasks:  tasks,
		cron:   cron.New(),
		logger: logger,
	}

	if cfg.CheckScheduleSpec != "" {
		if _, err := p.cron.AddFunc(cfg.CheckScheduleSpec, func() {
			p.enqueue(taskqueue.TypeCheckSchedule, taskqueue.CheckSchedulePayload{})
		}); err != nil {
			return nil, fmt.Errorf("register schedule check cron %q: %w", cfg.CheckScheduleSpec, err)
		}
	}
	if cfg.DailyWrapUpSpec != "" {
		if _, err := p.cron.AddFunc(cfg.DailyWrapUpSpec, func() {
			p.enqueue(taskqueue.TypeDailyWrapUp, taskqueue.DailyWrapUpPayload{})
		}); err != nil {
			return nil, fmt.Errorf("register wrap-up cron %q: %w", cfg.DailyWrapUpSpec, err)
		}
	}

	return p, nil
}

func (p *Producer) Start() {
	p.cron.Start()
	p.logger.Info("cron producer started", "entries", len(p.cron.Entries()))
}

// Stop waits for any in-flight enqueue to finish.
func (p *Producer) Stop() {
	<-p.cron.Stop().Done()
	p.logger.Info("cron producer stopped")
}

func (p *Producer) enqueue(taskType string, payload taskqueue.Payload) {
	data, err := taskqueue.EncodePayload(payload)
	if err != nil {
		p.logger.Error("encode cron payload failed", "task_type", taskType, "error", err)
		return
	}

	id, err := p.tasks.Enqueue(context.Background(), taskType, data)
	if err != nil {
		p.logger.Error("enqueue cron task failed", "task_type", taskType, "error", err)
		return
	}
	p.logger.Info("cron task enqueued", "task_type", taskType, "task_id", id)
}
