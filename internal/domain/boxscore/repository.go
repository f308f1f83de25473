package boxscore

import "context"

// StatsRepository owns the game_player_stats table. The table has no natural
// update semantics, so writes are delete-then-insert scoped by game id; the
// sync operation drives the bulk/per-row fallback.
type StatsRepository interface {
	DeleteForGame(ctx context.Context, gameID string) error
	InsertAll(ctx context.Context, rows []GamePlayerStat) (int, error)
	Insert(ctx context.Context, row GamePlayerStat) error
	ListForGame(ctx context.Context, gameID string, limit int) ([]GamePlayerStat, error)
	CountForGame(ctx context.Context, gameID string) (int, error)
}

// AdvancedStatsRepository owns game_player_advanced_stats, upserted on
// (game_id, player_id).
type AdvancedStatsRepository interface {
	UpsertAll(ctx context.Context, rows []GamePlayerAdvancedStat) (int, error)
	Upsert(ctx context.Context, row GamePlayerAdvancedStat) error
	ListForGame(ctx context.Context, gameID string, limit int) ([]GamePlayerAdvancedStat, error)
	CountForGame(ctx context.Context, gameID string) (int, error)
}
