package standings

import "context"

// Repository owns the team_standings table.
type Repository interface {
	UpsertAll(ctx context.Context, rows []TeamStanding) (int, error)
	Upsert(ctx context.Context, row TeamStanding) error
	List(ctx context.Context, season string, limit int) ([]TeamStanding, error)
}
