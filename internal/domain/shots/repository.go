package shots

import "context"

// Repository owns the player_shots table. Writes are delete-then-insert
// scoped by (game, player) since the provider resends the full chart.
type Repository interface {
	DeleteForPlayerGame(ctx context.Context, gameID string, playerID int64) error
	InsertAll(ctx context.Context, rows []ShotEvent) (int, error)
	Insert(ctx context.Context, row ShotEvent) error
	ListForGame(ctx context.Context, gameID string, limit int) ([]ShotEvent, error)
}
