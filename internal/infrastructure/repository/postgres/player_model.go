package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID           int64         `db:"id"`
	TeamID       sql.NullInt64 `db:"team_id"`
	FirstName    string        `db:"first_name"`
	LastName     string        `db:"last_name"`
	JerseyNumber string        `db:"jersey_number"`
	Position     string        `db:"position"`
	Height       string        `db:"height"`
	Weight       string        `db:"weight"`
	IsActive     bool          `db:"is_active"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

type playerInsertModel struct {
	ID           int64         `db:"id"`
	TeamID       sql.NullInt64 `db:"team_id"`
	FirstName    string        `db:"first_name"`
	LastName     string        `db:"last_name"`
	JerseyNumber string        `db:"jersey_number"`
	Position     string        `db:"position"`
	Height       string        `db:"height"`
	Weight       string        `db:"weight"`
	IsActive     bool          `db:"is_active"`
}
