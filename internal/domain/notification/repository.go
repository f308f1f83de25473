package notification

import "context"

// Repository owns the notifications table.
type Repository interface {
	// InsertUnique writes the row unless one with the same (game, kind)
	// already exists. Reports whether a row was written, making repeated
	// schedule checks idempotent.
	InsertUnique(ctx context.Context, n Notification) (bool, error)
}
