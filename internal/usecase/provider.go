package usecase

import (
	"context"
	"time"

	"github.com/hoopsync/nba-data-sync/external/nbastats"
)

// StatsProvider is the fetch surface the sync services depend on. Every
// method reports absence instead of failing: a false second return means
// the data could not be obtained after retries and the caller should skip,
// not abort.
type StatsProvider interface {
	Scoreboard(ctx context.Context, date time.Time) ([]nbastats.GameSummary, bool)
	BoxScoreTraditional(ctx context.Context, gameID string) (*nbastats.BoxScore, bool)
	LiveBoxScore(ctx context.Context, gameID string) (*nbastats.BoxScore, bool)
	BoxScoreSummary(ctx context.Context, gameID string) (*nbastats.BoxScore, bool)
	BoxScoreAdvanced(ctx context.Context, gameID string) ([]nbastats.AdvancedLine, bool)
	LeagueStandings(ctx context.Context, season string) ([]nbastats.Row, bool)
	TeamRoster(ctx context.Context, teamID int64, season string) ([]nbastats.Row, bool)
	LeagueDashPlayerStats(ctx context.Context, season string, measure nbastats.Measure) ([]nbastats.Row, bool)
	LeagueDashTeamStats(ctx context.Context, season string, measure nbastats.Measure) ([]nbastats.Row, bool)
	ShotChart(ctx context.Context, playerID, teamID int64, season string) ([]nbastats.Row, bool)
}

// Result is the outcome of one sync operation. Skipped buckets rows that
// were dropped on purpose, keyed by reason, so callers can tell data loss
// from expected filtering.
type Result struct {
	Synced  int
	Failed  int
	Skipped map[string]int
}

func newResult() *Result {
	return &Result{Skipped: make(map[string]int)}
}

func (r *Result) skip(reason string, n int) {
	if n > 0 {
		r.Skipped[reason] += n
	}
}

// SkippedTotal sums every skip bucket.
func (r *Result) SkippedTotal() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}
