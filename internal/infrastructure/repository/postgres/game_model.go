package postgres

import (
	"database/sql"
	"time"

	"github.com/hoopsync/nba-data-sync/internal/domain/game"
)

type gameTableModel struct {
	ID         string         `db:"id"`
	Season     string         `db:"season"`
	DateTime   time.Time      `db:"date_time"`
	IsTimeTBD  bool           `db:"is_time_tbd"`
	Status     string         `db:"status"`
	HomeTeamID int64          `db:"home_team_id"`
	AwayTeamID int64          `db:"away_team_id"`
	HomeScore  sql.NullInt64  `db:"home_score"`
	AwayScore  sql.NullInt64  `db:"away_score"`
	Arena      sql.NullString `db:"arena"`
	IsPlayoff  bool           `db:"is_playoff"`
	Period     sql.NullInt64  `db:"period"`
	GameClock  sql.NullString `db:"game_clock"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

type gameInsertModel struct {
	ID         string         `db:"id"`
	Season     string         `db:"season"`
	DateTime   time.Time      `db:"date_time"`
	IsTimeTBD  bool           `db:"is_time_tbd"`
	Status     string         `db:"status"`
	HomeTeamID int64          `db:"home_team_id"`
	AwayTeamID int64          `db:"away_team_id"`
	HomeScore  sql.NullInt64  `db:"home_score"`
	AwayScore  sql.NullInt64  `db:"away_score"`
	Arena      sql.NullString `db:"arena"`
	IsPlayoff  bool           `db:"is_playoff"`
	Period     sql.NullInt64  `db:"period"`
	GameClock  sql.NullString `db:"game_clock"`
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:         row.ID,
		Season:     row.Season,
		DateTime:   row.DateTime.UTC(),
		IsTimeTBD:  row.IsTimeTBD,
		Status:     row.Status,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		HomeScore:  nullInt64ToIntPtr(row.HomeScore),
		AwayScore:  nullInt64ToIntPtr(row.AwayScore),
		Arena:      nullStringToPtr(row.Arena),
		IsPlayoff:  row.IsPlayoff,
		Period:     nullInt64ToIntPtr(row.Period),
		GameClock:  nullStringToPtr(row.GameClock),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
}

func gameInsert(g game.Game) gameInsertModel {
	return gameInsertModel{
		ID:         g.ID,
		Season:     g.Season,
		DateTime:   g.DateTime.UTC(),
		IsTimeTBD:  g.IsTimeTBD,
		Status:     g.Status,
		HomeTeamID: g.HomeTeamID,
		AwayTeamID: g.AwayTeamID,
		HomeScore:  intPtrToNullInt64(g.HomeScore),
		AwayScore:  intPtrToNullInt64(g.AwayScore),
		Arena:      ptrToNullString(g.Arena),
		IsPlayoff:  g.IsPlayoff,
		Period:     intPtrToNullInt64(g.Period),
		GameClock:  ptrToNullString(g.GameClock),
	}
}
