package postgres

import (
	"database/sql"

	"github.com/hoopsync/nba-data-sync/internal/domain/seasonstats"
)

type playerSeasonStatTableModel struct {
	PlayerID    int64         `db:"player_id"`
	Season      string        `db:"season"`
	TeamID      sql.NullInt64 `db:"team_id"`
	GamesPlayed int           `db:"games_played"`
	Minutes     float64       `db:"minutes"`
	Points      float64       `db:"points"`
	Rebounds    float64       `db:"rebounds"`
	Assists     float64       `db:"assists"`
	Steals      float64       `db:"steals"`
	Blocks      float64       `db:"blocks"`
	Turnovers   float64       `db:"turnovers"`
	FGPct       float64       `db:"fg_pct"`
	FG3Pct      float64       `db:"fg3_pct"`
	FTPct       float64       `db:"ft_pct"`
	PlusMinus   float64       `db:"plus_minus"`
}

type playerSeasonAdvancedInsertModel struct {
	PlayerID    int64         `db:"player_id"`
	Season      string        `db:"season"`
	TeamID      sql.NullInt64 `db:"team_id"`
	GamesPlayed int           `db:"games_played"`
	OffRating   float64       `db:"off_rating"`
	DefRating   float64       `db:"def_rating"`
	NetRating   float64       `db:"net_rating"`
	TSPct       float64       `db:"ts_pct"`
	EFGPct      float64       `db:"efg_pct"`
	UsagePct    float64       `db:"usage_pct"`
	ASTPct      float64       `db:"ast_pct"`
	RebPct      float64       `db:"reb_pct"`
	Pace        float64       `db:"pace"`
	PIE         float64       `db:"pie"`
}

type teamSeasonAdvancedInsertModel struct {
	TeamID      int64   `db:"team_id"`
	Season      string  `db:"season"`
	GamesPlayed int     `db:"games_played"`
	OffRating   float64 `db:"off_rating"`
	DefRating   float64 `db:"def_rating"`
	NetRating   float64 `db:"net_rating"`
	TSPct       float64 `db:"ts_pct"`
	EFGPct      float64 `db:"efg_pct"`
	RebPct      float64 `db:"reb_pct"`
	Pace        float64 `db:"pace"`
	PIE         float64 `db:"pie"`
}

func playerSeasonStatInsert(s seasonstats.PlayerSeasonStat) playerSeasonStatTableModel {
	return playerSeasonStatTableModel{
		PlayerID:    s.PlayerID,
		Season:      s.Season,
		TeamID:      ptrToNullInt64(s.TeamID),
		GamesPlayed: s.GamesPlayed,
		Minutes:     s.Minutes,
		Points:      s.Points,
		Rebounds:    s.Rebounds,
		Assists:     s.Assists,
		Steals:      s.Steals,
		Blocks:      s.Blocks,
		Turnovers:   s.Turnovers,
		FGPct:       s.FGPct,
		FG3Pct:      s.FG3Pct,
		FTPct:       s.FTPct,
		PlusMinus:   s.PlusMinus,
	}
}

func playerSeasonStatFromRow(row playerSeasonStatTableModel) seasonstats.PlayerSeasonStat {
	return seasonstats.PlayerSeasonStat{
		PlayerID:    row.PlayerID,
		Season:      row.Season,
		TeamID:      nullInt64ToPtr(row.TeamID),
		GamesPlayed: row.GamesPlayed,
		Minutes:     row.Minutes,
		Points:      row.Points,
		Rebounds:    row.Rebounds,
		Assists:     row.Assists,
		Steals:      row.Steals,
		Blocks:      row.Blocks,
		Turnovers:   row.Turnovers,
		FGPct:       row.FGPct,
		FG3Pct:      row.FG3Pct,
		FTPct:       row.FTPct,
		PlusMinus:   row.PlusMinus,
	}
}
