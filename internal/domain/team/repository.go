package team

import "context"

// Repository owns the teams table.
type Repository interface {
	UpsertAll(ctx context.Context, teams []Team) (int, error)
	Upsert(ctx context.Context, t Team) error
	List(ctx context.Context, limit int) ([]Team, error)
	ListIDs(ctx context.Context) ([]int64, error)
}
