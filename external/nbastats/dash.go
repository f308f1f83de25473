package nbastats

import (
	"context"
	"net/url"
	"strconv"
)

// Measure selects the league-dash statistics family.
type Measure string

const (
	MeasureBase     Measure = "Base"
	MeasureAdvanced Measure = "Advanced"
)

// LeagueStandings returns one row per team for the season. Rows keep the
// provider shape; transformers consult the alias table for field access.
func (c *Client) LeagueStandings(ctx context.Context, season string) ([]Row, bool) {
	query := url.Values{}
	query.Set("LeagueID", "00")
	query.Set("Season", season)
	query.Set("SeasonType", "Regular Season")

	var envelope statsEnvelope
	if !c.getJSON(ctx, "standings", c.statsBaseURL, "/leaguestandingsv3", query, statsHeaders, &envelope) {
		return nil, false
	}
	return envelope.rows("Standings"), true
}

// TeamRoster returns the roster rows for one team and season.
func (c *Client) TeamRoster(ctx context.Context, teamID int64, season string) ([]Row, bool) {
	query := url.Values{}
	query.Set("TeamID", strconv.FormatInt(teamID, 10))
	query.Set("Season", season)

	var envelope statsEnvelope
	if !c.getJSON(ctx, "team_roster", c.statsBaseURL, "/commonteamroster", query, statsHeaders, &envelope) {
		return nil, false
	}
	return envelope.rows("CommonTeamRoster"), true
}

// LeagueDashPlayerStats returns per-game-average rows for every player in
// the season, under the requested measure.
func (c *Client) LeagueDashPlayerStats(ctx context.Context, season string, measure Measure) ([]Row, bool) {
	query := leagueDashQuery(season, measure)

	var envelope statsEnvelope
	if !c.getJSON(ctx, "league_dash_players", c.statsBaseURL, "/leaguedashplayerstats", query, statsHeaders, &envelope) {
		return nil, false
	}
	return envelope.rows("LeagueDashPlayerStats"), true
}

// LeagueDashTeamStats is the team-level counterpart.
func (c *Client) LeagueDashTeamStats(ctx context.Context, season string, measure Measure) ([]Row, bool) {
	query := leagueDashQuery(season, measure)

	var envelope statsEnvelope
	if !c.getJSON(ctx, "league_dash_teams", c.statsBaseURL, "/leaguedashteamstats", query, statsHeaders, &envelope) {
		return nil, false
	}
	return envelope.rows("LeagueDashTeamStats"), true
}

func leagueDashQuery(season string, measure Measure) url.Values {
	if measure == "" {
		measure = MeasureBase
	}
	query := url.Values{}
	query.Set("LeagueID", "00")
	query.Set("Season", season)
	query.Set("SeasonType", "Regular Season")
	query.Set("MeasureType", string(measure))
	query.Set("PerMode", "PerGame")
	return query
}

// ShotChart returns every shot event for one player and season; callers
// filter down to the game ids they care about.
func (c *Client) ShotChart(ctx context.Context, playerID, teamID int64, season string) ([]Row, bool) {
	query := url.Values{}
	query.Set("LeagueID", "00")
	query.Set("Season", season)
	query.Set("SeasonType", "Regular Season")
	query.Set("PlayerID", strconv.FormatInt(playerID, 10))
	query.Set("TeamID", strconv.FormatInt(teamID, 10))
	query.Set("ContextMeasure", "FGA")

	var envelope statsEnvelope
	if !c.getJSON(ctx, "shot_chart", c.statsBaseURL, "/shotchartdetail", query, statsHeaders, &envelope) {
		return nil, false
	}
	return envelope.rows("Shot_Chart_Detail"), true
}
