package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsync/nba-data-sync/internal/domain/player"
	qb "github.com/hoopsync/nba-data-sync/internal/platform/querybuilder"
)

const playerUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    team_id = EXCLUDED.team_id,
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    jersey_number = EXCLUDED.jersey_number,
    position = EXCLUDED.position,
    height = EXCLUDED.height,
    weight = EXCLUDED.weight,
    is_active = EXCLUDED.is_active,
    updated_at = NOW()`

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) UpsertAll(ctx context.Context, players []player.Player) (int, error) {
	if len(players) == 0 {
		return 0, nil
	}

	models := make([]playerInsertModel, 0, len(players))
	for _, p := range players {
		models = append(models, playerInsert(p))
	}

	query, args, err := qb.InsertModels("players", models, playerUpsertSuffix)
	if err != nil {
		return 0, fmt.Errorf("build upsert players query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("upsert %d players: %w", len(players), err)
	}

	return len(players), nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) error {
	query, args, err := qb.InsertModel("players", playerInsert(p), playerUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player id=%d: %w", p.ID, err)
	}

	return nil
}

func (r *PlayerRepository) List(ctx context.Context, limit int) ([]player.Player, error) {
	builder := qb.Select("*").From("players").OrderBy("id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:           row.ID,
			TeamID:       nullInt64ToPtr(row.TeamID),
			FirstName:    row.FirstName,
			LastName:     row.LastName,
			JerseyNumber: row.JerseyNumber,
			Position:     row.Position,
			Height:       row.Height,
			Weight:       row.Weight,
			IsActive:     row.IsActive,
		})
	}

	return out, nil
}

func (r *PlayerRepository) ListIDs(ctx context.Context) ([]int64, error) {
	query, args, err := qb.Select("id").From("players").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player ids query: %w", err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select player ids: %w", err)
	}

	return ids, nil
}

func playerInsert(p player.Player) playerInsertModel {
	return playerInsertModel{
		ID:           p.ID,
		TeamID:       ptrToNullInt64(p.TeamID),
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		JerseyNumber: p.JerseyNumber,
		Position:     p.Position,
		Height:       p.Height,
		Weight:       p.Weight,
		IsActive:     p.IsActive,
	}
}
