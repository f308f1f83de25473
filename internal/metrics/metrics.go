// Package metrics exposes the Prometheus instrumentation for the sync
// pipeline and its worker.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

var (
	// TasksProcessed counts terminated queue tasks by type and outcome.
	TasksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nba_data_sync",
		Name:      "tasks_processed_total",
		Help:      "Queue tasks terminated by this worker.",
	}, []string{"task_type", "status"})

	// TaskDuration observes handler wall time per task type.
	TaskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nba_data_sync",
		Name:      "task_duration_seconds",
		Help:      "Handler execution time.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"task_type"})

	// RowsSynced counts rows written per target table.
	RowsSynced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nba_data_sync",
		Name:      "rows_synced_total",
		Help:      "Rows upserted or inserted by sync operations.",
	}, []string{"table"})

	// ProviderRetries counts stats-API retries by failure class.
	ProviderRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nba_data_sync",
		Name:      "provider_retries_total",
		Help:      "Stats API call retries by failure class.",
	}, []string{"class"})

	// QueueClaimRaces counts claims lost to a concurrent worker.
	QueueClaimRaces = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nba_data_sync",
		Name:      "queue_claim_races_total",
		Help:      "Task claims lost to another worker.",
	})
)

// Server is the /metrics exposition listener.
type Server struct {
	srv    *http.Server
	logger *logging.Logger
}

func NewServer(addr string, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start serves in the background until Shutdown.
func (s *Server) Start() {
	go func() {
		s.logger.Info("metrics listener started", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics listener failed", "error", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
