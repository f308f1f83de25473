package standings

// TeamStanding is one conference-standings row, keyed (team, season).
type TeamStanding struct {
	TeamID int64
	Season string

	Wins       int
	Losses     int
	WinPct     float64
	ConfRank   int
	HomeRecord string
	RoadRecord string
	Streak     string
	GamesBack  float64
}
