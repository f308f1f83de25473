package notification

import "time"

const (
	KindGameStart = "GAME_START"
	KindGameEnd   = "GAME_END"
	KindFirstGame = "FIRST_GAME"
)

// Notification is an outbound event row written on observed game status
// transitions. Delivery is someone else's job; this system only records.
type Notification struct {
	GameID    string
	Kind      string
	Message   string
	CreatedAt time.Time
}
