package nbastats

import (
	"context"
	"net/url"
	"sort"
	"time"
)

// GameSummary is one provider-shaped scoreboard row: the GameHeader result
// set merged with each side's LineScore points. Nothing here is validated
// against the store; transformers own that.
type GameSummary struct {
	GameID     string
	StatusCode int
	StatusText string
	GameDateEST string
	Season     string
	Arena      string
	HomeTeamID int64
	AwayTeamID int64
	HomeScore  *int
	AwayScore  *int
}

// Scoreboard fetches the schedule and line scores for one calendar date
// (provider's Eastern-time day).
func (c *Client) Scoreboard(ctx context.Context, date time.Time) ([]GameSummary, bool) {
	query := url.Values{}
	query.Set("GameDate", date.Format("2006-01-02"))
	query.Set("LeagueID", "00")
	query.Set("DayOffset", "0")

	var envelope statsEnvelope
	if !c.getJSON(ctx, "scoreboard", c.statsBaseURL, "/scoreboardv2", query, statsHeaders, &envelope) {
		return nil, false
	}

	points := make(map[string]map[int64]int)
	for _, line := range envelope.rows("LineScore") {
		gameID := line.Str("game_id", "")
		teamID := line.Int64("team_id", 0)
		if gameID == "" || teamID == 0 || !line.Has("points") {
			continue
		}
		if points[gameID] == nil {
			points[gameID] = make(map[int64]int, 2)
		}
		points[gameID][teamID] = line.Int("points", 0)
	}

	headers := envelope.rows("GameHeader")
	games := make([]GameSummary, 0, len(headers))
	for _, row := range headers {
		summary := GameSummary{
			GameID:      row.Str("game_id", ""),
			StatusCode:  row.Int("game_status_id", 1),
			StatusText:  row.Str("game_status_text", ""),
			GameDateEST: row.Str("game_date_est", ""),
			Season:      row.Str("season", ""),
			Arena:       row.Str("arena_name", ""),
			HomeTeamID:  row.Int64("home_team_id", 0),
			AwayTeamID:  row.Int64("away_team_id", 0),
		}
		if summary.GameID == "" {
			continue
		}
		if scores, ok := points[summary.GameID]; ok {
			if pts, ok := scores[summary.HomeTeamID]; ok {
				home := pts
				summary.HomeScore = &home
			}
			if pts, ok := scores[summary.AwayTeamID]; ok {
				away := pts
				summary.AwayScore = &away
			}
		}
		games = append(games, summary)
	}

	sort.SliceStable(games, func(i, j int) bool { return games[i].GameID < games[j].GameID })
	return games, true
}
