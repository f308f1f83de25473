// Package app assembles the process: one database handle, one provider
// client, the sync services on top, and the worker that drives them.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hoopsync/nba-data-sync/external/nbastats"
	"github.com/hoopsync/nba-data-sync/internal/config"
	"github.com/hoopsync/nba-data-sync/internal/domain/fantasy"
	"github.com/hoopsync/nba-data-sync/internal/infrastructure/repository/postgres"
	"github.com/hoopsync/nba-data-sync/internal/metrics"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
	"github.com/hoopsync/nba-data-sync/internal/platform/resilience"
	"github.com/hoopsync/nba-data-sync/internal/scheduler"
	"github.com/hoopsync/nba-data-sync/internal/usecase"
	"github.com/hoopsync/nba-data-sync/internal/worker"
)

// App is the wired process. Every service shares the single database
// handle and the single provider client built here.
type App struct {
	Config config.Config
	Logger *logging.Logger
	DB     *sqlx.DB

	Provider *nbastats.Client

	Teams     *usecase.TeamSyncService
	Players   *usecase.PlayerSyncService
	Games     *usecase.GameSyncService
	GameStats *usecase.GameStatsService
	Advanced  *usecase.AdvancedStatsService
	Season    *usecase.SeasonStatsService
	Standings *usecase.StandingsSyncService
	Shots     *usecase.ShotSyncService
	Schedule  *usecase.ScheduleService
	Audit     *usecase.AuditService
	Backfill  *usecase.BackfillService
	WrapUp    *usecase.WrapUpService

	Tasks    *postgres.TaskRepository
	Worker   *worker.Worker
	Producer *scheduler.Producer
	Metrics  *metrics.Server
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	provider, err := nbastats.NewClient(nbastats.ClientConfig{
		StatsBaseURL: cfg.StatsBaseURL,
		CDNBaseURL:   cfg.CDNBaseURL,
		ProxyURL:     cfg.ProxyURL,
		Timeout:      cfg.StatsTimeout,
		Retry:        cfg.Retry,
		Breaker:      cfg.Breaker,
		Logger:       logger,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("build stats client: %w", err)
	}
	provider.OnRetry(func(_ string, class resilience.ErrorClass) {
		metrics.ProviderRetries.WithLabelValues(class.String()).Inc()
	})

	scoring, err := fantasy.LoadScoring(cfg.ScoringConfigPath)
	if err != nil {
		logger.Warn("scoring config fell back to defaults",
			"path", cfg.ScoringConfigPath, "error", err)
	}

	teamRepo := postgres.NewTeamRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	gameRepo := postgres.NewGameRepository(db)
	statsRepo := postgres.NewGamePlayerStatsRepository(db)
	advancedRepo := postgres.NewGamePlayerAdvancedStatsRepository(db)
	seasonRepo := postgres.NewSeasonStatsRepository(db)
	standingsRepo := postgres.NewStandingsRepository(db)
	shotRepo := postgres.NewShotRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	taskRepo := postgres.NewTaskRepository(db)

	gameStats := usecase.NewGameStatsService(provider, gameRepo, playerRepo, statsRepo, scoring, logger)
	games := usecase.NewGameSyncService(provider, gameRepo, teamRepo, gameStats, cfg.OperationalLocation(), logger)
	advanced := usecase.NewAdvancedStatsService(provider, gameRepo, playerRepo, advancedRepo, seasonRepo, logger)
	season := usecase.NewSeasonStatsService(provider, seasonRepo, logger)
	standings := usecase.NewStandingsSyncService(provider, teamRepo, standingsRepo, logger)

	a := &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Provider:  provider,
		Teams:     usecase.NewTeamSyncService(provider, teamRepo, logger),
		Players:   usecase.NewPlayerSyncService(provider, teamRepo, playerRepo, logger),
		Games:     games,
		GameStats: gameStats,
		Advanced:  advanced,
		Season:    season,
		Standings: standings,
		Shots:     usecase.NewShotSyncService(provider, gameRepo, statsRepo, shotRepo, logger),
		Schedule:  usecase.NewScheduleService(gameRepo, notificationRepo, taskRepo, games, logger),
		Audit:     usecase.NewAuditService(gameRepo, games, logger),
		Backfill:  usecase.NewBackfillService(gameRepo, games, gameStats, advanced, cfg.BackfillCheckpointPath, logger),
		WrapUp:    usecase.NewWrapUpService(games, standings, season, advanced, logger),
		Tasks:     taskRepo,
	}

	a.Worker = worker.New(taskRepo, worker.NewHandlers(
		a.Games, a.GameStats, a.Season, a.Advanced, a.WrapUp, a.Audit, a.Backfill, a.Schedule, logger,
	), worker.Config{
		PollInterval:   cfg.WorkerPollInterval,
		MaxIdleBackoff: cfg.WorkerMaxIdleBackoff,
		MaxInfraErrors: cfg.WorkerMaxInfraErrors,
		PostTaskPause:  cfg.WorkerPostTaskPause,
	}, logger)

	if cfg.SchedulerEnabled {
		producer, err := scheduler.NewProducer(taskRepo, scheduler.Config{
			CheckScheduleSpec: cfg.CheckScheduleCron,
			DailyWrapUpSpec:   cfg.DailyWrapUpCron,
		}, logger)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.Producer = producer
	}
	if cfg.MetricsEnabled {
		a.Metrics = metrics.NewServer(cfg.MetricsAddr, logger)
	}

	return a, nil
}

// Close stops the background producers and releases the database handle.
// The worker loop itself stops through its context.
func (a *App) Close() error {
	if a.Producer != nil {
		a.Producer.Stop()
	}
	if a.Metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Metrics.Shutdown(ctx); err != nil {
			a.Logger.Warn("metrics shutdown failed", "error", err)
		}
	}
	return a.DB.Close()
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	attrs := []attribute.KeyValue{attribute.String("db.system", "postgresql")}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		attrs = append(attrs, attribute.String("db.name", name))
	}

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(attrs...),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}
