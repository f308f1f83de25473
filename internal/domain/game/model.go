package game

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusScheduled = "Scheduled"
	StatusLive      = "Live"
	StatusFinal     = "Final"
)

// RegularSeasonPrefix is the season-type prefix of a regular-season game id.
// Anything else (preseason "00" aside, playoffs "01", play-in "02") is
// treated as non-regular; only the playoff check matters downstream.
const regularSeasonPrefix = "00"

// Game is one scheduled or played game. DateTime is stored in UTC;
// IsTimeTBD marks rows whose tip-off time the provider has not announced.
type Game struct {
	ID         string
	Season     string
	DateTime   time.Time
	IsTimeTBD  bool
	Status     string
	HomeTeamID int64
	AwayTeamID int64
	HomeScore  *int
	AwayScore  *int
	Arena      *string
	IsPlayoff  bool
	Period     *int
	GameClock  *string
	UpdatedAt  time.Time
}

// StatusFromCode maps the provider's numeric status. Unknown codes come back
// as Scheduled; the self-correction pass cleans those up later.
func StatusFromCode(code int) string {
	switch code {
	case 2:
		return StatusLive
	case 3:
		return StatusFinal
	default:
		return StatusScheduled
	}
}

// IsPlayoffID reports whether a game id carries a non-regular-season prefix.
func IsPlayoffID(gameID string) bool {
	if len(gameID) < 2 {
		return false
	}
	return gameID[:2] != regularSeasonPrefix
}

// SeasonForDate derives the "YYYY-YY" season label. The season rolls over in
// October: October through December belong to the season starting that year.
func SeasonForDate(t time.Time) string {
	year := t.Year()
	if t.Month() < time.October {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

func (g Game) HasScores() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

func (g Game) IsPast(now time.Time) bool {
	return g.DateTime.Before(now)
}

func (g Game) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	if g.HomeTeamID <= 0 || g.AwayTeamID <= 0 {
		return fmt.Errorf("game %s team ids must be positive", g.ID)
	}
	if g.Status == StatusFinal && !g.HasScores() {
		return fmt.Errorf("game %s is final without scores", g.ID)
	}
	return nil
}
