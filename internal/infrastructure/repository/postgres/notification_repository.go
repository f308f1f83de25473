package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsync/nba-data-sync/internal/domain/notification"
	qb "github.com/hoopsync/nba-data-sync/internal/platform/querybuilder"
)

type notificationInsertModel struct {
	GameID  string `db:"game_id"`
	Kind    string `db:"kind"`
	Message string `db:"message"`
}

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) InsertUnique(ctx context.Context, n notification.Notification) (bool, error) {
	model := notificationInsertModel{
		GameID:  n.GameID,
		Kind:    n.Kind,
		Message: n.Message,
	}

	query, args, err := qb.InsertModel("notifications", model, `ON CONFLICT (game_id, kind) DO NOTHING`)
	if err != nil {
		return false, fmt.Errorf("build insert notification query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert notification game_id=%s kind=%s: %w", n.GameID, n.Kind, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected insert notification: %w", err)
	}

	return affected > 0, nil
}
