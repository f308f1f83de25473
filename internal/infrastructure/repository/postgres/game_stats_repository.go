package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsync/nba-data-sync/internal/domain/boxscore"
	qb "github.com/hoopsync/nba-data-sync/internal/platform/querybuilder"
)

// Duplicate lines inside one payload are dropped rather than erroring;
// DeleteForGame already cleared the previous generation.
const gamePlayerStatInsertSuffix = `ON CONFLICT (game_id, player_id) DO NOTHING`

const gamePlayerAdvancedUpsertSuffix = `ON CONFLICT (game_id, player_id)
DO UPDATE SET
    team_id = EXCLUDED.team_id,
    minutes = EXCLUDED.minutes,
    off_rating = EXCLUDED.off_rating,
    def_rating = EXCLUDED.def_rating,
    net_rating = EXCLUDED.net_rating,
    ts_pct = EXCLUDED.ts_pct,
    efg_pct = EXCLUDED.efg_pct,
    ast_pct = EXCLUDED.ast_pct,
    ast_to_tov = EXCLUDED.ast_to_tov,
    ast_ratio = EXCLUDED.ast_ratio,
    tov_pct = EXCLUDED.tov_pct,
    oreb_pct = EXCLUDED.oreb_pct,
    dreb_pct = EXCLUDED.dreb_pct,
    reb_pct = EXCLUDED.reb_pct,
    usage_pct = EXCLUDED.usage_pct,
    pace = EXCLUDED.pace,
    pie = EXCLUDED.pie,
    possessions = EXCLUDED.possessions,
    updated_at = NOW()`

type GamePlayerStatsRepository struct {
	db *sqlx.DB
}

func NewGamePlayerStatsRepository(db *sqlx.DB) *GamePlayerStatsRepository {
	return &GamePlayerStatsRepository{db: db}
}

func (r *GamePlayerStatsRepository) DeleteForGame(ctx context.Context, gameID string) error {
	query, args, err := qb.DeleteFrom("game_player_stats").
		Where(qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete game player stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete game player stats game_id=%s: %w", gameID, err)
	}

	return nil
}

func (r *GamePlayerStatsRepository) InsertAll(ctx context.Context, rows []boxscore.GamePlayerStat) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	models := make([]gamePlayerStatInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, gamePlayerStatInsert(row))
	}

	query, args, err := qb.InsertModels("game_player_stats", models, gamePlayerStatInsertSuffix)
	if err != nil {
		return 0, fmt.Errorf("build insert game player stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("insert %d game player stats: %w", len(rows), err)
	}

	return len(rows), nil
}

func (r *GamePlayerStatsRepository) Insert(ctx context.Context, row boxscore.GamePlayerStat) error {
	query, args, err := qb.InsertModel("game_player_stats", gamePlayerStatInsert(row), gamePlayerStatInsertSuffix)
	if err != nil {
		return fmt.Errorf("build insert game player stat query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert game player stat game_id=%s player_id=%d: %w", row.GameID, row.PlayerID, err)
	}

	return nil
}

func (r *GamePlayerStatsRepository) ListForGame(ctx context.Context, gameID string, limit int) ([]boxscore.GamePlayerStat, error) {
	builder := qb.Select("*").From("game_player_stats").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("player_id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game player stats query: %w", err)
	}

	var rows []gamePlayerStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select game player stats game_id=%s: %w", gameID, err)
	}

	out := make([]boxscore.GamePlayerStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, gamePlayerStatFromRow(row))
	}

	return out, nil
}

func (r *GamePlayerStatsRepository) CountForGame(ctx context.Context, gameID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("game_player_stats").
		Where(qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count game player stats query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count game player stats game_id=%s: %w", gameID, err)
	}

	return count, nil
}

type GamePlayerAdvancedStatsRepository struct {
	db *sqlx.DB
}

func NewGamePlayerAdvancedStatsRepository(db *sqlx.DB) *GamePlayerAdvancedStatsRepository {
	return &GamePlayerAdvancedStatsRepository{db: db}
}

func (r *GamePlayerAdvancedStatsRepository) UpsertAll(ctx context.Context, rows []boxscore.GamePlayerAdvancedStat) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	models := make([]gamePlayerAdvancedInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, gamePlayerAdvancedInsert(row))
	}

	query, args, err := qb.InsertModels("game_player_advanced_stats", models, gamePlayerAdvancedUpsertSuffix)
	if err != nil {
		return 0, fmt.Errorf("build upsert game player advanced stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("upsert %d game player advanced stats: %w", len(rows), err)
	}

	return len(rows), nil
}

func (r *GamePlayerAdvancedStatsRepository) Upsert(ctx context.Context, row boxscore.GamePlayerAdvancedStat) error {
	query, args, err := qb.InsertModel("game_player_advanced_stats", gamePlayerAdvancedInsert(row), gamePlayerAdvancedUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert game player advanced stat query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert game player advanced stat game_id=%s player_id=%d: %w", row.GameID, row.PlayerID, err)
	}

	return nil
}

func (r *GamePlayerAdvancedStatsRepository) ListForGame(ctx context.Context, gameID string, limit int) ([]boxscore.GamePlayerAdvancedStat, error) {
	builder := qb.Select("*").From("game_player_advanced_stats").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("player_id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game player advanced stats query: %w", err)
	}

	var rows []gamePlayerAdvancedTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select game player advanced stats game_id=%s: %w", gameID, err)
	}

	out := make([]boxscore.GamePlayerAdvancedStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, gamePlayerAdvancedFromRow(row))
	}

	return out, nil
}

func (r *GamePlayerAdvancedStatsRepository) CountForGame(ctx context.Context, gameID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("game_player_advanced_stats").
		Where(qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count game player advanced stats query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count game player advanced stats game_id=%s: %w", gameID, err)
	}

	return count, nil
}
