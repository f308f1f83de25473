package game

import (
	"context"
	"time"
)

// Repository owns the games table. Date arguments are UTC day boundaries;
// implementations match rows whose DateTime falls inside [date, date+24h).
type Repository interface {
	UpsertAll(ctx context.Context, games []Game) (int, error)
	Upsert(ctx context.Context, g Game) error
	GetByID(ctx context.Context, gameID string) (*Game, error)
	ListByDate(ctx context.Context, date time.Time) ([]Game, error)
	ListDatesWithGames(ctx context.Context, start, end time.Time) ([]time.Time, error)
	UpdateScoreStatus(ctx context.Context, gameID string, homeScore, awayScore *int, status string) error

	// Live games plus Scheduled games tipping off within the window.
	ListLiveOrUpcoming(ctx context.Context, now time.Time, window time.Duration) ([]Game, error)

	// Audit reads.
	ListPastStillScheduled(ctx context.Context, now time.Time, limit int) ([]Game, error)
	ListFinalMissingScores(ctx context.Context, limit int) ([]Game, error)
	ListFinalWithoutPlayerStats(ctx context.Context, start, end time.Time, limit int) ([]Game, error)
}
