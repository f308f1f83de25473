package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	qb "github.com/hoopsync/nba-data-sync/internal/platform/querybuilder"
)

const gameUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    season = EXCLUDED.season,
    date_time = EXCLUDED.date_time,
    is_time_tbd = EXCLUDED.is_time_tbd,
    status = EXCLUDED.status,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    arena = EXCLUDED.arena,
    is_playoff = EXCLUDED.is_playoff,
    period = EXCLUDED.period,
    game_clock = EXCLUDED.game_clock,
    updated_at = NOW()`

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) UpsertAll(ctx context.Context, games []game.Game) (int, error) {
	if len(games) == 0 {
		return 0, nil
	}

	models := make([]gameInsertModel, 0, len(games))
	for _, g := range games {
		models = append(models, gameInsert(g))
	}

	query, args, err := qb.InsertModels("games", models, gameUpsertSuffix)
	if err != nil {
		return 0, fmt.Errorf("build upsert games query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("upsert %d games: %w", len(games), err)
	}

	return len(games), nil
}

func (r *GameRepository) Upsert(ctx context.Context, g game.Game) error {
	query, args, err := qb.InsertModel("games", gameInsert(g), gameUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert game id=%s: %w", g.ID, err)
	}

	return nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (*game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("id", gameID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select game id=%s: %w", gameID, err)
	}

	out := gameFromRow(row)
	return &out, nil
}

func (r *GameRepository) ListByDate(ctx context.Context, date time.Time) ([]game.Game, error) {
	start := date.UTC().Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)

	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Expr("date_time >= ?", start),
			qb.Expr("date_time < ?", end),
		).
		OrderBy("date_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games by date query: %w", err)
	}

	return r.listGames(ctx, query, args)
}

func (r *GameRepository) ListDatesWithGames(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	query, args, err := qb.Select("DATE(date_time) AS game_date").From("games").
		Where(
			qb.Expr("date_time >= ?", start.UTC()),
			qb.Expr("date_time < ?", end.UTC()),
		).
		GroupBy("DATE(date_time)").
		OrderBy("game_date").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game dates query: %w", err)
	}

	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, args...); err != nil {
		return nil, fmt.Errorf("select game dates: %w", err)
	}

	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.UTC())
	}

	return out, nil
}

func (r *GameRepository) UpdateScoreStatus(ctx context.Context, gameID string, homeScore, awayScore *int, status string) error {
	query, args, err := qb.Update("games").
		Set("home_score", intPtrToNullInt64(homeScore)).
		Set("away_score", intPtrToNullInt64(awayScore)).
		Set("status", status).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", gameID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game score query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update game score id=%s: %w", gameID, err)
	}

	return nil
}

func (r *GameRepository) ListLiveOrUpcoming(ctx context.Context, now time.Time, window time.Duration) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Expr(
			"(status = ? OR (status = ? AND is_time_tbd = FALSE AND date_time >= ? AND date_time <= ?))",
			game.StatusLive, game.StatusScheduled, now.UTC(), now.UTC().Add(window),
		)).
		OrderBy("date_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select live or upcoming games query: %w", err)
	}

	return r.listGames(ctx, query, args)
}

func (r *GameRepository) ListPastStillScheduled(ctx context.Context, now time.Time, limit int) ([]game.Game, error) {
	builder := qb.Select("*").From("games").
		Where(
			qb.Eq("status", game.StatusScheduled),
			qb.Expr("date_time < ?", now.UTC()),
		).
		OrderBy("date_time", "id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select past scheduled games query: %w", err)
	}

	return r.listGames(ctx, query, args)
}

func (r *GameRepository) ListFinalMissingScores(ctx context.Context, limit int) ([]game.Game, error) {
	builder := qb.Select("*").From("games").
		Where(
			qb.Eq("status", game.StatusFinal),
			qb.Expr("(home_score IS NULL OR away_score IS NULL)"),
		).
		OrderBy("date_time", "id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select final games missing scores query: %w", err)
	}

	return r.listGames(ctx, query, args)
}

func (r *GameRepository) ListFinalWithoutPlayerStats(ctx context.Context, start, end time.Time, limit int) ([]game.Game, error) {
	builder := qb.Select("g.*").From("games g").
		Where(
			qb.Eq("g.status", game.StatusFinal),
			qb.Expr("g.date_time >= ?", start.UTC()),
			qb.Expr("g.date_time < ?", end.UTC()),
			qb.Expr("NOT EXISTS (SELECT 1 FROM game_player_stats s WHERE s.game_id = g.id)"),
		).
		OrderBy("g.date_time", "g.id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select final games without stats query: %w", err)
	}

	return r.listGames(ctx, query, args)
}

func (r *GameRepository) listGames(ctx context.Context, query string, args []any) ([]game.Game, error) {
	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}

	return out, nil
}
