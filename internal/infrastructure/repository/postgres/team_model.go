package postgres

import "time"

type teamTableModel struct {
	ID         int64     `db:"id"`
	Name       string    `db:"name"`
	City       string    `db:"city"`
	Code       string    `db:"code"`
	Conference string    `db:"conference"`
	LogoURL    string    `db:"logo_url"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	City       string `db:"city"`
	Code       string `db:"code"`
	Conference string `db:"conference"`
	LogoURL    string `db:"logo_url"`
}
