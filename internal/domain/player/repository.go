package player

import "context"

// Repository owns the players table.
type Repository interface {
	UpsertAll(ctx context.Context, players []Player) (int, error)
	Upsert(ctx context.Context, p Player) error
	List(ctx context.Context, limit int) ([]Player, error)
	ListIDs(ctx context.Context) ([]int64, error)
}
