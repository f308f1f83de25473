package taskqueue

import "context"

// Repository owns the task_queue table.
type Repository interface {
	// NextPending returns the oldest PENDING task by creation time, or nil
	// when the queue is empty.
	NextPending(ctx context.Context) (*Task, error)

	// Claim flips PENDING to PROCESSING for the given id. The update is
	// conditional on the row still being PENDING; a concurrent worker racing
	// on the same row loses the update and Claim reports false.
	Claim(ctx context.Context, id int64) (bool, error)

	MarkCompleted(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errText string) error

	// Enqueue inserts a new PENDING task (used by the cron producer).
	Enqueue(ctx context.Context, taskType string, payload []byte) (int64, error)
}
