package team

import (
	"fmt"
	"strings"
)

// Team is one franchise. IDs come from the external stats authority and are
// stable across seasons.
type Team struct {
	ID         int64
	Name       string
	City       string
	Code       string
	Conference string
	LogoURL    string
}

// LogoURLFor builds the CDN logo reference for a team id.
func LogoURLFor(teamID int64) string {
	return fmt.Sprintf("https://cdn.nba.com/logos/nba/%d/global/L/logo.svg", teamID)
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id must be positive")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if strings.TrimSpace(t.Code) == "" {
		return fmt.Errorf("team code is required")
	}
	return nil
}
