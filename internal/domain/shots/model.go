package shots

// ShotEvent is one shot-chart entry, unique per (game, game event).
// Court coordinates are provider units (tenths of feet from the basket).
type ShotEvent struct {
	GameID      string
	GameEventID int64
	PlayerID    int64
	TeamID      int64

	Period     int
	LocX       int
	LocY       int
	Made       bool
	Distance   int
	ShotType   string
	ShotZone   string
	ActionType string
}
