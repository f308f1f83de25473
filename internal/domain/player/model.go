package player

import (
	"fmt"
	"strings"
)

// Player is one roster entry. TeamID is nil for free agents.
type Player struct {
	ID           int64
	TeamID       *int64
	FirstName    string
	LastName     string
	JerseyNumber string
	Position     string
	Height       string
	Weight       string
	IsActive     bool
}

func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// SplitName breaks a provider full name into first/last. Everything after
// the first space belongs to the last name, so suffixes like "Jr." survive.
func SplitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be positive")
	}
	if p.FullName() == "" {
		return fmt.Errorf("player name is required")
	}
	return nil
}
