package postgres

import (
	"time"

	"github.com/hoopsync/nba-data-sync/internal/domain/boxscore"
)

type gamePlayerStatTableModel struct {
	GameID       string    `db:"game_id"`
	PlayerID     int64     `db:"player_id"`
	TeamID       int64     `db:"team_id"`
	Minutes      string    `db:"minutes"`
	FantasyScore float64   `db:"fantasy_score"`
	Points       int       `db:"points"`
	Rebounds     int       `db:"rebounds"`
	OffReb       int       `db:"off_reb"`
	DefReb       int       `db:"def_reb"`
	Assists      int       `db:"assists"`
	Steals       int       `db:"steals"`
	Blocks       int       `db:"blocks"`
	Turnovers    int       `db:"turnovers"`
	Fouls        int       `db:"fouls"`
	FGM          int       `db:"fgm"`
	FGA          int       `db:"fga"`
	FG3M         int       `db:"fg3m"`
	FG3A         int       `db:"fg3a"`
	FTM          int       `db:"ftm"`
	FTA          int       `db:"fta"`
	PlusMinus    int       `db:"plus_minus"`
	CreatedAt    time.Time `db:"created_at"`
}

type gamePlayerStatInsertModel struct {
	GameID       string  `db:"game_id"`
	PlayerID     int64   `db:"player_id"`
	TeamID       int64   `db:"team_id"`
	Minutes      string  `db:"minutes"`
	FantasyScore float64 `db:"fantasy_score"`
	Points       int     `db:"points"`
	Rebounds     int     `db:"rebounds"`
	OffReb       int     `db:"off_reb"`
	DefReb       int     `db:"def_reb"`
	Assists      int     `db:"assists"`
	Steals       int     `db:"steals"`
	Blocks       int     `db:"blocks"`
	Turnovers    int     `db:"turnovers"`
	Fouls        int     `db:"fouls"`
	FGM          int     `db:"fgm"`
	FGA          int     `db:"fga"`
	FG3M         int     `db:"fg3m"`
	FG3A         int     `db:"fg3a"`
	FTM          int     `db:"ftm"`
	FTA          int     `db:"fta"`
	PlusMinus    int     `db:"plus_minus"`
}

type gamePlayerAdvancedTableModel struct {
	GameID      string    `db:"game_id"`
	PlayerID    int64     `db:"player_id"`
	TeamID      int64     `db:"team_id"`
	Minutes     string    `db:"minutes"`
	OffRating   float64   `db:"off_rating"`
	DefRating   float64   `db:"def_rating"`
	NetRating   float64   `db:"net_rating"`
	TSPct       float64   `db:"ts_pct"`
	EFGPct      float64   `db:"efg_pct"`
	ASTPct      float64   `db:"ast_pct"`
	ASTToTO     float64   `db:"ast_to_tov"`
	ASTRatio    float64   `db:"ast_ratio"`
	TOVPct      float64   `db:"tov_pct"`
	ORebPct     float64   `db:"oreb_pct"`
	DRebPct     float64   `db:"dreb_pct"`
	RebPct      float64   `db:"reb_pct"`
	UsagePct    float64   `db:"usage_pct"`
	Pace        float64   `db:"pace"`
	PIE         float64   `db:"pie"`
	Possessions int       `db:"possessions"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type gamePlayerAdvancedInsertModel struct {
	GameID      string  `db:"game_id"`
	PlayerID    int64   `db:"player_id"`
	TeamID      int64   `db:"team_id"`
	Minutes     string  `db:"minutes"`
	OffRating   float64 `db:"off_rating"`
	DefRating   float64 `db:"def_rating"`
	NetRating   float64 `db:"net_rating"`
	TSPct       float64 `db:"ts_pct"`
	EFGPct      float64 `db:"efg_pct"`
	ASTPct      float64 `db:"ast_pct"`
	ASTToTO     float64 `db:"ast_to_tov"`
	ASTRatio    float64 `db:"ast_ratio"`
	TOVPct      float64 `db:"tov_pct"`
	ORebPct     float64 `db:"oreb_pct"`
	DRebPct     float64 `db:"dreb_pct"`
	RebPct      float64 `db:"reb_pct"`
	UsagePct    float64 `db:"usage_pct"`
	Pace        float64 `db:"pace"`
	PIE         float64 `db:"pie"`
	Possessions int     `db:"possessions"`
}

func gamePlayerStatInsert(s boxscore.GamePlayerStat) gamePlayerStatInsertModel {
	return gamePlayerStatInsertModel{
		GameID:       s.GameID,
		PlayerID:     s.PlayerID,
		TeamID:       s.TeamID,
		Minutes:      s.Minutes,
		FantasyScore: s.FantasyScore,
		Points:       s.Points,
		Rebounds:     s.Rebounds,
		OffReb:       s.OffReb,
		DefReb:       s.DefReb,
		Assists:      s.Assists,
		Steals:       s.Steals,
		Blocks:       s.Blocks,
		Turnovers:    s.Turnovers,
		Fouls:        s.Fouls,
		FGM:          s.FGM,
		FGA:          s.FGA,
		FG3M:         s.FG3M,
		FG3A:         s.FG3A,
		FTM:          s.FTM,
		FTA:          s.FTA,
		PlusMinus:    s.PlusMinus,
	}
}

func gamePlayerStatFromRow(row gamePlayerStatTableModel) boxscore.GamePlayerStat {
	return boxscore.GamePlayerStat{
		GameID:       row.GameID,
		PlayerID:     row.PlayerID,
		TeamID:       row.TeamID,
		Minutes:      row.Minutes,
		FantasyScore: row.FantasyScore,
		Points:       row.Points,
		Rebounds:     row.Rebounds,
		OffReb:       row.OffReb,
		DefReb:       row.DefReb,
		Assists:      row.Assists,
		Steals:       row.Steals,
		Blocks:       row.Blocks,
		Turnovers:    row.Turnovers,
		Fouls:        row.Fouls,
		FGM:          row.FGM,
		FGA:          row.FGA,
		FG3M:         row.FG3M,
		FG3A:         row.FG3A,
		FTM:          row.FTM,
		FTA:          row.FTA,
		PlusMinus:    row.PlusMinus,
	}
}

func gamePlayerAdvancedInsert(s boxscore.GamePlayerAdvancedStat) gamePlayerAdvancedInsertModel {
	return gamePlayerAdvancedInsertModel{
		GameID:      s.GameID,
		PlayerID:    s.PlayerID,
		TeamID:      s.TeamID,
		Minutes:     s.Minutes,
		OffRating:   s.OffRating,
		DefRating:   s.DefRating,
		NetRating:   s.NetRating,
		TSPct:       s.TSPct,
		EFGPct:      s.EFGPct,
		ASTPct:      s.ASTPct,
		ASTToTO:     s.ASTToTO,
		ASTRatio:    s.ASTRatio,
		TOVPct:      s.TOVPct,
		ORebPct:     s.ORebPct,
		DRebPct:     s.DRebPct,
		RebPct:      s.RebPct,
		UsagePct:    s.UsagePct,
		Pace:        s.Pace,
		PIE:         s.PIE,
		Possessions: s.Possessions,
	}
}

func gamePlayerAdvancedFromRow(row gamePlayerAdvancedTableModel) boxscore.GamePlayerAdvancedStat {
	return boxscore.GamePlayerAdvancedStat{
		GameID:      row.GameID,
		PlayerID:    row.PlayerID,
		TeamID:      row.TeamID,
		Minutes:     row.Minutes,
		OffRating:   row.OffRating,
		DefRating:   row.DefRating,
		NetRating:   row.NetRating,
		TSPct:       row.TSPct,
		EFGPct:      row.EFGPct,
		ASTPct:      row.ASTPct,
		ASTToTO:     row.ASTToTO,
		ASTRatio:    row.ASTRatio,
		TOVPct:      row.TOVPct,
		ORebPct:     row.ORebPct,
		DRebPct:     row.DRebPct,
		RebPct:      row.RebPct,
		UsagePct:    row.UsagePct,
		Pace:        row.Pace,
		PIE:         row.PIE,
		Possessions: row.Possessions,
	}
}
