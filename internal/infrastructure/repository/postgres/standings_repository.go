package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsync/nba-data-sync/internal/domain/standings"
	qb "github.com/hoopsync/nba-data-sync/internal/platform/querybuilder"
)

const standingUpsertSuffix = `ON CONFLICT (team_id, season)
DO UPDATE SET
    wins = EXCLUDED.wins,
    losses = EXCLUDED.losses,
    win_pct = EXCLUDED.win_pct,
    conf_rank = EXCLUDED.conf_rank,
    home_record = EXCLUDED.home_record,
    road_record = EXCLUDED.road_record,
    streak = EXCLUDED.streak,
    games_back = EXCLUDED.games_back,
    updated_at = NOW()`

type standingTableModel struct {
	TeamID     int64     `db:"team_id"`
	Season     string    `db:"season"`
	Wins       int       `db:"wins"`
	Losses     int       `db:"losses"`
	WinPct     float64   `db:"win_pct"`
	ConfRank   int       `db:"conf_rank"`
	HomeRecord string    `db:"home_record"`
	RoadRecord string    `db:"road_record"`
	Streak     string    `db:"streak"`
	GamesBack  float64   `db:"games_back"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type standingInsertModel struct {
	TeamID     int64   `db:"team_id"`
	Season     string  `db:"season"`
	Wins       int     `db:"wins"`
	Losses     int     `db:"losses"`
	WinPct     float64 `db:"win_pct"`
	ConfRank   int     `db:"conf_rank"`
	HomeRecord string  `db:"home_record"`
	RoadRecord string  `db:"road_record"`
	Streak     string  `db:"streak"`
	GamesBack  float64 `db:"games_back"`
}

type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

func (r *StandingsRepository) UpsertAll(ctx context.Context, rows []standings.TeamStanding) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	models := make([]standingInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, standingInsert(row))
	}

	query, args, err := qb.InsertModels("team_standings", models, standingUpsertSuffix)
	if err != nil {
		return 0, fmt.Errorf("build upsert standings query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("upsert %d standings: %w", len(rows), err)
	}

	return len(rows), nil
}

func (r *StandingsRepository) Upsert(ctx context.Context, row standings.TeamStanding) error {
	query, args, err := qb.InsertModel("team_standings", standingInsert(row), standingUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert standing query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert standing team_id=%d season=%s: %w", row.TeamID, row.Season, err)
	}

	return nil
}

func (r *StandingsRepository) List(ctx context.Context, season string, limit int) ([]standings.TeamStanding, error) {
	builder := qb.Select("*").From("team_standings").
		Where(qb.Eq("season", season)).
		OrderBy("conf_rank", "team_id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select standings season=%s: %w", season, err)
	}

	out := make([]standings.TeamStanding, 0, len(rows))
	for _, row := range rows {
		out = append(out, standings.TeamStanding{
			TeamID:     row.TeamID,
			Season:     row.Season,
			Wins:       row.Wins,
			Losses:     row.Losses,
			WinPct:     row.WinPct,
			ConfRank:   row.ConfRank,
			HomeRecord: row.HomeRecord,
			RoadRecord: row.RoadRecord,
			Streak:     row.Streak,
			GamesBack:  row.GamesBack,
		})
	}

	return out, nil
}

func standingInsert(s standings.TeamStanding) standingInsertModel {
	return standingInsertModel{
		TeamID:     s.TeamID,
		Season:     s.Season,
		Wins:       s.Wins,
		Losses:     s.Losses,
		WinPct:     s.WinPct,
		ConfRank:   s.ConfRank,
		HomeRecord: s.HomeRecord,
		RoadRecord: s.RoadRecord,
		Streak:     s.Streak,
		GamesBack:  s.GamesBack,
	}
}
