package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hoopsync/nba-data-sync/external/nbastats"
	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	"github.com/hoopsync/nba-data-sync/internal/domain/seasonstats"
	"github.com/hoopsync/nba-data-sync/internal/metrics"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

// SeasonStatsService syncs per-player season averages from the league dash.
type SeasonStatsService struct {
	provider   StatsProvider
	seasonRepo seasonstats.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewSeasonStatsService(
	provider StatsProvider,
	seasonRepo seasonstats.Repository,
	logger *logging.Logger,
) *SeasonStatsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SeasonStatsService{
		provider:   provider,
		seasonRepo: seasonRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// SyncSeasonStats refreshes the base season averages for every player the
// dash knows about. An empty season argument targets the current season.
func (s *SeasonStatsService) SyncSeasonStats(ctx context.Context, season string) (*Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonStatsService.SyncSeasonStats")
	defer span.End()

	if s.provider == nil || s.seasonRepo == nil {
		return nil, fmt.Errorf("%w: season stats sync is not fully wired", ErrDependencyUnavailable)
	}
	if season == "" {
		season = game.SeasonForDate(s.now())
	}

	result := newResult()

	dashRows, ok := s.provider.LeagueDashPlayerStats(ctx, season, nbastats.MeasureBase)
	if !ok {
		s.logger.WarnContext(ctx, "skip season stats: dash unavailable", "season", season)
		result.skip("provider_unavailable", 1)
		return result, nil
	}

	rows := make([]seasonstats.PlayerSeasonStat, 0, len(dashRows))
	for _, row := range dashRows {
		stat, err := playerSeasonFromRow(row, season)
		if err != nil {
			result.skip("malformed_row", 1)
			continue
		}
		rows = append(rows, stat)
	}

	synced, err := s.seasonRepo.UpsertPlayerStats(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("upsert player season stats: %w", err)
	}
	result.Synced = synced
	metrics.RowsSynced.WithLabelValues("player_season_stats").Add(float64(synced))

	s.logger.InfoContext(ctx, "season stats sync finished",
		"season", season,
		"synced", result.Synced,
		"skipped", result.SkippedTotal(),
	)

	return result, nil
}
