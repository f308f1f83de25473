package boxscore

// GamePlayerStat is one traditional box-score line. Minutes keep the source
// "MM:SS" text; everything numeric is coerced at transform time so the row
// is always total.
type GamePlayerStat struct {
	GameID       string
	PlayerID     int64
	TeamID       int64
	Minutes      string
	FantasyScore float64

	Points    int
	Rebounds  int
	OffReb    int
	DefReb    int
	Assists   int
	Steals    int
	Blocks    int
	Turnovers int
	Fouls     int

	FGM       int
	FGA       int
	FG3M      int
	FG3A      int
	FTM       int
	FTA       int
	PlusMinus int
}

// GamePlayerAdvancedStat is one advanced box-score line, unique per
// (game, player) like the traditional line.
type GamePlayerAdvancedStat struct {
	GameID   string
	PlayerID int64
	TeamID   int64
	Minutes  string

	OffRating   float64
	DefRating   float64
	NetRating   float64
	TSPct       float64
	EFGPct      float64
	ASTPct      float64
	ASTToTO     float64
	ASTRatio    float64
	TOVPct      float64
	ORebPct     float64
	DRebPct     float64
	RebPct      float64
	UsagePct    float64
	Pace        float64
	PIE         float64
	Possessions int
}
