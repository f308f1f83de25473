package seasonstats

import "context"

// Repository owns the three season-aggregate tables. All writes are
// full-replace upserts keyed on (entity id, season).
type Repository interface {
	UpsertPlayerStats(ctx context.Context, rows []PlayerSeasonStat) (int, error)
	UpsertPlayerAdvanced(ctx context.Context, rows []PlayerSeasonAdvancedStat) (int, error)
	UpsertTeamAdvanced(ctx context.Context, rows []TeamSeasonAdvancedStat) (int, error)
	ListPlayerStats(ctx context.Context, season string, limit int) ([]PlayerSeasonStat, error)
}
