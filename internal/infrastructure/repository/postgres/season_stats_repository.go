package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsync/nba-data-sync/internal/domain/seasonstats"
	qb "github.com/hoopsync/nba-data-sync/internal/platform/querybuilder"
)

const playerSeasonStatUpsertSuffix = `ON CONFLICT (player_id, season)
DO UPDATE SET
    team_id = EXCLUDED.team_id,
    games_played = EXCLUDED.games_played,
    minutes = EXCLUDED.minutes,
    points = EXCLUDED.points,
    rebounds = EXCLUDED.rebounds,
    assists = EXCLUDED.assists,
    steals = EXCLUDED.steals,
    blocks = EXCLUDED.blocks,
    turnovers = EXCLUDED.turnovers,
    fg_pct = EXCLUDED.fg_pct,
    fg3_pct = EXCLUDED.fg3_pct,
    ft_pct = EXCLUDED.ft_pct,
    plus_minus = EXCLUDED.plus_minus`

const playerSeasonAdvancedUpsertSuffix = `ON CONFLICT (player_id, season)
DO UPDATE SET
    team_id = EXCLUDED.team_id,
    games_played = EXCLUDED.games_played,
    off_rating = EXCLUDED.off_rating,
    def_rating = EXCLUDED.def_rating,
    net_rating = EXCLUDED.net_rating,
    ts_pct = EXCLUDED.ts_pct,
    efg_pct = EXCLUDED.efg_pct,
    usage_pct = EXCLUDED.usage_pct,
    ast_pct = EXCLUDED.ast_pct,
    reb_pct = EXCLUDED.reb_pct,
    pace = EXCLUDED.pace,
    pie = EXCLUDED.pie`

const teamSeasonAdvancedUpsertSuffix = `ON CONFLICT (team_id, season)
DO UPDATE SET
    games_played = EXCLUDED.games_played,
    off_rating = EXCLUDED.off_rating,
    def_rating = EXCLUDED.def_rating,
    net_rating = EXCLUDED.net_rating,
    ts_pct = EXCLUDED.ts_pct,
    efg_pct = EXCLUDED.efg_pct,
    reb_pct = EXCLUDED.reb_pct,
    pace = EXCLUDED.pace,
    pie = EXCLUDED.pie`

type SeasonStatsRepository struct {
	db *sqlx.DB
}

func NewSeasonStatsRepository(db *sqlx.DB) *SeasonStatsRepository {
	return &SeasonStatsRepository{db: db}
}

func (r *SeasonStatsRepository) UpsertPlayerStats(ctx context.Context, rows []seasonstats.PlayerSeasonStat) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	models := make([]playerSeasonStatTableModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, playerSeasonStatInsert(row))
	}

	query, args, err := qb.InsertModels("player_season_stats", models, playerSeasonStatUpsertSuffix)
	if err != nil {
		return 0, fmt.Errorf("build upsert player season stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("upsert %d player season stats: %w", len(rows), err)
	}

	return len(rows), nil
}

func (r *SeasonStatsRepository) UpsertPlayerAdvanced(ctx context.Context, rows []seasonstats.PlayerSeasonAdvancedStat) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	models := make([]playerSeasonAdvancedInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, playerSeasonAdvancedInsertModel{
			PlayerID:    row.PlayerID,
			Season:      row.Season,
			TeamID:      ptrToNullInt64(row.TeamID),
			GamesPlayed: row.GamesPlayed,
			OffRating:   row.OffRating,
			DefRating:   row.DefRating,
			NetRating:   row.NetRating,
			TSPct:       row.TSPct,
			EFGPct:      row.EFGPct,
			UsagePct:    row.UsagePct,
			ASTPct:      row.ASTPct,
			RebPct:      row.RebPct,
			Pace:        row.Pace,
			PIE:         row.PIE,
		})
	}

	query, args, err := qb.InsertModels("player_season_advanced_stats", models, playerSeasonAdvancedUpsertSuffix)
	if err != nil {
		return 0, fmt.Errorf("build upsert player season advanced stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("upsert %d player season advanced stats: %w", len(rows), err)
	}

	return len(rows), nil
}

func (r *SeasonStatsRepository) UpsertTeamAdvanced(ctx context.Context, rows []seasonstats.TeamSeasonAdvancedStat) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	models := make([]teamSeasonAdvancedInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, teamSeasonAdvancedInsertModel{
			TeamID:      row.TeamID,
			Season:      row.Season,
			GamesPlayed: row.GamesPlayed,
			OffRating:   row.OffRating,
			DefRating:   row.DefRating,
			NetRating:   row.NetRating,
			TSPct:       row.TSPct,
			EFGPct:      row.EFGPct,
			RebPct:      row.RebPct,
			Pace:        row.Pace,
			PIE:         row.PIE,
		})
	}

	query, args, err := qb.InsertModels("team_season_advanced_stats", models, teamSeasonAdvancedUpsertSuffix)
	if err != nil {
		return 0, fmt.Errorf("build upsert team season advanced stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("upsert %d team season advanced stats: %w", len(rows), err)
	}

	return len(rows), nil
}

func (r *SeasonStatsRepository) ListPlayerStats(ctx context.Context, season string, limit int) ([]seasonstats.PlayerSeasonStat, error) {
	builder := qb.Select("*").From("player_season_stats").
		Where(qb.Eq("season", season)).
		OrderBy("player_id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player season stats query: %w", err)
	}

	var rows []playerSeasonStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player season stats season=%s: %w", season, err)
	}

	out := make([]seasonstats.PlayerSeasonStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerSeasonStatFromRow(row))
	}

	return out, nil
}
