package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hoopsync/nba-data-sync/internal/app"
	"github.com/hoopsync/nba-data-sync/internal/config"
	"github.com/hoopsync/nba-data-sync/internal/observability"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	taskType := flag.String("task", "", "execute a single task type and exit instead of polling")
	taskPayload := flag.String("payload", "{}", "JSON payload for -task")
	flag.Parse()

	config.LoadDotenv()

	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("load config failed", "error", err)
		return 1
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init tracing failed", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.StatsTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init profiler failed", "error", err)
		return 1
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Warn("profiler stop failed", "error", err)
		}
	}()

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app failed", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close app failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *taskType != "" {
		if err := a.Worker.ExecuteDirect(ctx, *taskType, []byte(*taskPayload)); err != nil {
			logger.Error("task failed", "task_type", *taskType, "error", err)
			return 1
		}
		logger.Info("task completed", "task_type", *taskType)
		return 0
	}

	if a.Metrics != nil {
		a.Metrics.Start()
	}
	if a.Producer != nil {
		a.Producer.Start()
	}

	logger.Info("worker starting",
		"poll_interval", cfg.WorkerPollInterval,
		"scheduler_enabled", cfg.SchedulerEnabled,
		"env", cfg.AppEnv,
	)

	if err := a.Worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", "error", err)
		return 1
	}
	if ctx.Err() != nil {
		logger.Info("worker interrupted")
		return 130
	}

	logger.Info("worker stopped")
	return 0
}
