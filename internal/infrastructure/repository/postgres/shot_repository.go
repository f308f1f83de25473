package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hoopsync/nba-data-sync/internal/domain/shots"
	qb "github.com/hoopsync/nba-data-sync/internal/platform/querybuilder"
)

// The provider resends the full chart per (game, player); DeleteForPlayerGame
// clears the previous generation before inserts, so conflicts only come from
// duplicates inside one payload.
const shotInsertSuffix = `ON CONFLICT (game_id, game_event_id) DO NOTHING`

type shotTableModel struct {
	GameID      string    `db:"game_id"`
	GameEventID int64     `db:"game_event_id"`
	PlayerID    int64     `db:"player_id"`
	TeamID      int64     `db:"team_id"`
	Period      int       `db:"period"`
	LocX        int       `db:"loc_x"`
	LocY        int       `db:"loc_y"`
	Made        bool      `db:"made"`
	Distance    int       `db:"distance"`
	ShotType    string    `db:"shot_type"`
	ShotZone    string    `db:"shot_zone"`
	ActionType  string    `db:"action_type"`
	CreatedAt   time.Time `db:"created_at"`
}

type shotInsertModel struct {
	GameID      string `db:"game_id"`
	GameEventID int64  `db:"game_event_id"`
	PlayerID    int64  `db:"player_id"`
	TeamID      int64  `db:"team_id"`
	Period      int    `db:"period"`
	LocX        int    `db:"loc_x"`
	LocY        int    `db:"loc_y"`
	Made        bool   `db:"made"`
	Distance    int    `db:"distance"`
	ShotType    string `db:"shot_type"`
	ShotZone    string `db:"shot_zone"`
	ActionType  string `db:"action_type"`
}

type ShotRepository struct {
	db *sqlx.DB
}

func NewShotRepository(db *sqlx.DB) *ShotRepository {
	return &ShotRepository{db: db}
}

func (r *ShotRepository) DeleteForPlayerGame(ctx context.Context, gameID string, playerID int64) error {
	query, args, err := qb.DeleteFrom("player_shots").
		Where(
			qb.Eq("game_id", gameID),
			qb.Eq("player_id", playerID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player shots query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete player shots game_id=%s player_id=%d: %w", gameID, playerID, err)
	}

	return nil
}

func (r *ShotRepository) InsertAll(ctx context.Context, rows []shots.ShotEvent) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	models := make([]shotInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, shotInsert(row))
	}

	query, args, err := qb.InsertModels("player_shots", models, shotInsertSuffix)
	if err != nil {
		return 0, fmt.Errorf("build insert player shots query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("insert %d player shots: %w", len(rows), err)
	}

	return len(rows), nil
}

func (r *ShotRepository) Insert(ctx context.Context, row shots.ShotEvent) error {
	query, args, err := qb.InsertModel("player_shots", shotInsert(row), shotInsertSuffix)
	if err != nil {
		return fmt.Errorf("build insert player shot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert player shot game_id=%s event_id=%d: %w", row.GameID, row.GameEventID, err)
	}

	return nil
}

func (r *ShotRepository) ListForGame(ctx context.Context, gameID string, limit int) ([]shots.ShotEvent, error) {
	builder := qb.Select("*").From("player_shots").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("game_event_id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player shots query: %w", err)
	}

	var rows []shotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player shots game_id=%s: %w", gameID, err)
	}

	out := make([]shots.ShotEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, shots.ShotEvent{
			GameID:      row.GameID,
			GameEventID: row.GameEventID,
			PlayerID:    row.PlayerID,
			TeamID:      row.TeamID,
			Period:      row.Period,
			LocX:        row.LocX,
			LocY:        row.LocY,
			Made:        row.Made,
			Distance:    row.Distance,
			ShotType:    row.ShotType,
			ShotZone:    row.ShotZone,
			ActionType:  row.ActionType,
		})
	}

	return out, nil
}

func shotInsert(s shots.ShotEvent) shotInsertModel {
	return shotInsertModel{
		GameID:      s.GameID,
		GameEventID: s.GameEventID,
		PlayerID:    s.PlayerID,
		TeamID:      s.TeamID,
		Period:      s.Period,
		LocX:        s.LocX,
		LocY:        s.LocY,
		Made:        s.Made,
		Distance:    s.Distance,
		ShotType:    s.ShotType,
		ShotZone:    s.ShotZone,
		ActionType:  s.ActionType,
	}
}
