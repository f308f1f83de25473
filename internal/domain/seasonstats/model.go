package seasonstats

// PlayerSeasonStat is a per-game-average line for one player and season.
// Rows are recomputed wholesale each sync; there is no incremental
// accumulation.
type PlayerSeasonStat struct {
	PlayerID int64
	Season   string
	TeamID   *int64

	GamesPlayed int
	Minutes     float64
	Points      float64
	Rebounds    float64
	Assists     float64
	Steals      float64
	Blocks      float64
	Turnovers   float64
	FGPct       float64
	FG3Pct      float64
	FTPct       float64
	PlusMinus   float64
}

// PlayerSeasonAdvancedStat mirrors the advanced league-dash measure.
type PlayerSeasonAdvancedStat struct {
	PlayerID int64
	Season   string
	TeamID   *int64

	GamesPlayed int
	OffRating   float64
	DefRating   float64
	NetRating   float64
	TSPct       float64
	EFGPct      float64
	UsagePct    float64
	ASTPct      float64
	RebPct      float64
	Pace        float64
	PIE         float64
}

// TeamSeasonAdvancedStat is the team-level advanced measure for a season.
type TeamSeasonAdvancedStat struct {
	TeamID int64
	Season string

	GamesPlayed int
	OffRating   float64
	DefRating   float64
	NetRating   float64
	TSPct       float64
	EFGPct      float64
	RebPct      float64
	Pace        float64
	PIE         float64
}
