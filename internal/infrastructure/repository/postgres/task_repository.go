package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsync/nba-data-sync/internal/domain/taskqueue"
	qb "github.com/hoopsync/nba-data-sync/internal/platform/querybuilder"
)

type taskTableModel struct {
	ID          int64          `db:"id"`
	Type        string         `db:"task_type"`
	Payload     []byte         `db:"payload"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	StartedAt   *time.Time     `db:"started_at"`
	CompletedAt *time.Time     `db:"completed_at"`
	ErrorLog    sql.NullString `db:"error_log"`
}

type taskInsertModel struct {
	Type    string `db:"task_type"`
	Payload []byte `db:"payload"`
	Status  string `db:"status"`
}

type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) NextPending(ctx context.Context) (*taskqueue.Task, error) {
	query, args, err := qb.Select("*").From("task_queue").
		Where(qb.Eq("status", taskqueue.StatusPending)).
		OrderBy("created_at", "id").
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select next pending task query: %w", err)
	}

	var row taskTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select next pending task: %w", err)
	}

	out := taskFromRow(row)
	return &out, nil
}

func (r *TaskRepository) Claim(ctx context.Context, id int64) (bool, error) {
	query, args, err := qb.Update("task_queue").
		Set("status", taskqueue.StatusProcessing).
		SetExpr("started_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", id),
			qb.Eq("status", taskqueue.StatusPending),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build claim task query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("claim task id=%d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected claim task id=%d: %w", id, err)
	}

	return affected > 0, nil
}

func (r *TaskRepository) MarkCompleted(ctx context.Context, id int64) error {
	query, args, err := qb.Update("task_queue").
		Set("status", taskqueue.StatusCompleted).
		SetExpr("completed_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build complete task query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("complete task id=%d: %w", id, err)
	}

	return nil
}

func (r *TaskRepository) MarkFailed(ctx context.Context, id int64, errText string) error {
	query, args, err := qb.Update("task_queue").
		Set("status", taskqueue.StatusFailed).
		Set("error_log", taskqueue.TruncateError(errText)).
		SetExpr("completed_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build fail task query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("fail task id=%d: %w", id, err)
	}

	return nil
}

func (r *TaskRepository) Enqueue(ctx context.Context, taskType string, payload []byte) (int64, error) {
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	model := taskInsertModel{
		Type:    taskType,
		Payload: payload,
		Status:  taskqueue.StatusPending,
	}

	query, args, err := qb.InsertModel("task_queue", model, "RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build enqueue task query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("enqueue task type=%s: %w", taskType, err)
	}

	return id, nil
}

func taskFromRow(row taskTableModel) taskqueue.Task {
	var errLog *string
	if row.ErrorLog.Valid {
		text := row.ErrorLog.String
		errLog = &text
	}

	return taskqueue.Task{
		ID:          row.ID,
		Type:        row.Type,
		RawPayload:  row.Payload,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		StartedAt:   row.StartedAt,
		CompletedAt: row.CompletedAt,
		ErrorLog:    errLog,
	}
}
