package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

// WrapUpOptions are the per-run toggles of a daily wrap-up. Nil means yes.
type WrapUpOptions struct {
	SyncStandings   *bool
	SyncPlayerStats *bool
	SyncAdvanced    *bool
}

func (o WrapUpOptions) standings() bool   { return o.SyncStandings == nil || *o.SyncStandings }
func (o WrapUpOptions) playerStats() bool { return o.SyncPlayerStats == nil || *o.SyncPlayerStats }
func (o WrapUpOptions) advanced() bool    { return o.SyncAdvanced == nil || *o.SyncAdvanced }

// WrapUpService is the once-a-day consolidation pass: finalize yesterday's
// and today's games with box scores, then refresh standings and season
// aggregates. Individual steps degrade independently; one provider outage
// does not abort the rest of the wrap-up.
type WrapUpService struct {
	games     *GameSyncService
	standings *StandingsSyncService
	season    *SeasonStatsService
	advanced  *AdvancedStatsService
	logger    *logging.Logger
	now       func() time.Time
}

func NewWrapUpService(
	games *GameSyncService,
	standings *StandingsSyncService,
	season *SeasonStatsService,
	advanced *AdvancedStatsService,
	logger *logging.Logger,
) *WrapUpService {
	if logger == nil {
		logger = logging.Default()
	}

	return &WrapUpService{
		games:     games,
		standings: standings,
		season:    season,
		advanced:  advanced,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *WrapUpService) DailyWrapUp(ctx context.Context, opts WrapUpOptions) (*Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WrapUpService.DailyWrapUp")
	defer span.End()

	if s.games == nil {
		return nil, fmt.Errorf("%w: daily wrap-up is not fully wired", ErrDependencyUnavailable)
	}

	result := newResult()
	season := game.SeasonForDate(s.now())

	gamesResult, err := s.games.SyncGames(ctx, true)
	if err != nil {
		s.logger.ErrorContext(ctx, "wrap-up game sync failed", "error", err)
		result.Failed++
	} else {
		s.merge(result, gamesResult)
	}

	if opts.standings() && s.standings != nil {
		stepResult, err := s.standings.SyncStandings(ctx, season)
		if err != nil {
			s.logger.ErrorContext(ctx, "wrap-up standings sync failed", "error", err)
			result.Failed++
		} else {
			s.merge(result, stepResult)
		}
	}

	if opts.playerStats() && s.season != nil {
		stepResult, err := s.season.SyncSeasonStats(ctx, season)
		if err != nil {
			s.logger.ErrorContext(ctx, "wrap-up season stats sync failed", "error", err)
			result.Failed++
		} else {
			s.merge(result, stepResult)
		}
	}

	if opts.advanced() && s.advanced != nil {
		stepResult, err := s.advanced.SyncSeasonAdvancedStats(ctx, season, true, true)
		if err != nil {
			s.logger.ErrorContext(ctx, "wrap-up season advanced sync failed", "error", err)
			result.Failed++
		} else {
			s.merge(result, stepResult)
		}
	}

	s.logger.InfoContext(ctx, "daily wrap-up finished",
		"season", season,
		"synced", result.Synced,
		"skipped", result.SkippedTotal(),
		"failed", result.Failed,
	)

	return result, nil
}

func (s *WrapUpService) merge(into *Result, from *Result) {
	if from == nil {
		return
	}
	into.Synced += from.Synced
	into.Failed += from.Failed
	for reason, n := range from.Skipped {
		into.skip(reason, n)
	}
}
