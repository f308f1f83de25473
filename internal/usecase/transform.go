package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/hoopsync/nba-data-sync/external/nbastats"
	"github.com/hoopsync/nba-data-sync/internal/domain/boxscore"
	"github.com/hoopsync/nba-data-sync/internal/domain/fantasy"
	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	"github.com/hoopsync/nba-data-sync/internal/domain/player"
	"github.com/hoopsync/nba-data-sync/internal/domain/seasonstats"
	"github.com/hoopsync/nba-data-sync/internal/domain/shots"
	"github.com/hoopsync/nba-data-sync/internal/domain/standings"
	"github.com/hoopsync/nba-data-sync/internal/domain/team"
)

// The provider publishes game times in US Eastern wall-clock. Resolving the
// zone once keeps DST handling in the tz database where it belongs.
var easternTime = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// parseGameTime turns the provider's Eastern timestamp into UTC. A date-only
// value means the tip-off time is unannounced: the row is pinned to noon UTC
// and flagged TBD. A timestamp landing exactly on midnight UTC is the
// provider's own TBD placeholder and is flagged the same way.
func parseGameTime(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, fmt.Errorf("%w: empty game time", ErrInvalidInput)
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		noon := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
		return noon, true, nil
	}

	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04:05Z07:00"} {
		t, err := time.ParseInLocation(layout, raw, easternTime)
		if err != nil {
			continue
		}
		utc := t.UTC()
		if utc.Hour() == 0 && utc.Minute() == 0 && utc.Second() == 0 {
			return utc, true, nil
		}
		return utc, false, nil
	}

	return time.Time{}, false, fmt.Errorf("%w: unparseable game time %q", ErrInvalidInput, raw)
}

func gameFromSummary(s nbastats.GameSummary) (game.Game, error) {
	if strings.TrimSpace(s.GameID) == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if s.HomeTeamID <= 0 || s.AwayTeamID <= 0 {
		return game.Game{}, fmt.Errorf("%w: game %s has no team ids", ErrInvalidInput, s.GameID)
	}

	dateTime, tbd, err := parseGameTime(s.GameDateEST)
	if err != nil {
		return game.Game{}, err
	}

	season := strings.TrimSpace(s.Season)
	if season == "" {
		season = game.SeasonForDate(dateTime)
	} else if len(season) == 4 {
		// Scoreboard reports the season start year only.
		year := dateTime.Year()
		if parsed, perr := time.Parse("2006", season); perr == nil {
			year = parsed.Year()
		}
		season = fmt.Sprintf("%d-%02d", year, (year+1)%100)
	}

	var arena *string
	if a := strings.TrimSpace(s.Arena); a != "" {
		arena = &a
	}

	return game.Game{
		ID:         s.GameID,
		Season:     season,
		DateTime:   dateTime,
		IsTimeTBD:  tbd,
		Status:     game.StatusFromCode(s.StatusCode),
		HomeTeamID: s.HomeTeamID,
		AwayTeamID: s.AwayTeamID,
		HomeScore:  s.HomeScore,
		AwayScore:  s.AwayScore,
		Arena:      arena,
		IsPlayoff:  game.IsPlayoffID(s.GameID),
	}, nil
}

// formatMinutes normalizes the provider's playing-time text to "M:SS".
// The V3 endpoints emit ISO 8601 durations ("PT15M54.70S"); the CDN live
// feed already uses clock text. Fractional seconds are dropped.
func formatMinutes(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "0:00"
	}
	if !strings.HasPrefix(raw, "PT") {
		return raw
	}

	rest := raw[2:]
	minutes, seconds := 0, 0
	if i := strings.IndexByte(rest, 'M'); i >= 0 {
		fmt.Sscanf(rest[:i], "%d", &minutes)
		rest = rest[i+1:]
	}
	if i := strings.IndexByte(rest, 'S'); i >= 0 {
		var secs float64
		fmt.Sscanf(rest[:i], "%f", &secs)
		seconds = int(secs)
	}

	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func statFromPlayerLine(gameID string, line nbastats.PlayerLine, scoring fantasy.ScoringConfig) boxscore.GamePlayerStat {
	score := scoring.Score(fantasy.StatLine{
		Points:    line.Points,
		Rebounds:  line.Rebounds,
		Assists:   line.Assists,
		Steals:    line.Steals,
		Blocks:    line.Blocks,
		Turnovers: line.Turnovers,
	})

	return boxscore.GamePlayerStat{
		GameID:       gameID,
		PlayerID:     line.PlayerID,
		TeamID:       line.TeamID,
		Minutes:      formatMinutes(line.Minutes),
		FantasyScore: score,
		Points:       line.Points,
		Rebounds:     line.Rebounds,
		OffReb:       line.OffReb,
		DefReb:       line.DefReb,
		Assists:      line.Assists,
		Steals:       line.Steals,
		Blocks:       line.Blocks,
		Turnovers:    line.Turnovers,
		Fouls:        line.Fouls,
		FGM:          line.FGM,
		FGA:          line.FGA,
		FG3M:         line.FG3M,
		FG3A:         line.FG3A,
		FTM:          line.FTM,
		FTA:          line.FTA,
		PlusMinus:    line.PlusMinus,
	}
}

func advancedFromLine(gameID string, line nbastats.AdvancedLine) boxscore.GamePlayerAdvancedStat {
	return boxscore.GamePlayerAdvancedStat{
		GameID:      gameID,
		PlayerID:    line.PlayerID,
		TeamID:      line.TeamID,
		Minutes:     formatMinutes(line.Minutes),
		OffRating:   line.OffRating,
		DefRating:   line.DefRating,
		NetRating:   line.NetRating,
		TSPct:       line.TSPct,
		EFGPct:      line.EFGPct,
		ASTPct:      line.ASTPct,
		ASTToTO:     line.ASTToTO,
		ASTRatio:    line.ASTRatio,
		TOVPct:      line.TOVPct,
		ORebPct:     line.ORebPct,
		DRebPct:     line.DRebPct,
		RebPct:      line.RebPct,
		UsagePct:    line.UsagePct,
		Pace:        line.Pace,
		PIE:         line.PIE,
		Possessions: line.Possessions,
	}
}

func teamFromStandingRow(row nbastats.Row) (team.Team, error) {
	id := row.Int64("team_id", 0)
	if id <= 0 {
		return team.Team{}, fmt.Errorf("%w: standings row has no team id", ErrInvalidInput)
	}

	name := strings.TrimSpace(row.Str("team_name", ""))
	if name == "" {
		return team.Team{}, fmt.Errorf("%w: standings row for team %d has no name", ErrInvalidInput, id)
	}

	return team.Team{
		ID:         id,
		Name:       name,
		City:       strings.TrimSpace(row.Str("team_city", "")),
		Code:       strings.TrimSpace(row.Str("team_code", "")),
		Conference: strings.TrimSpace(row.Str("team_conference", "")),
		LogoURL:    team.LogoURLFor(id),
	}, nil
}

func standingFromRow(row nbastats.Row, season string) (standings.TeamStanding, error) {
	id := row.Int64("team_id", 0)
	if id <= 0 {
		return standings.TeamStanding{}, fmt.Errorf("%w: standings row has no team id", ErrInvalidInput)
	}

	return standings.TeamStanding{
		TeamID:     id,
		Season:     season,
		Wins:       row.Int("wins", 0),
		Losses:     row.Int("losses", 0),
		WinPct:     row.Float("win_pct", 0),
		ConfRank:   row.Int("conf_rank", 0),
		HomeRecord: strings.TrimSpace(row.Str("home_record", "")),
		RoadRecord: strings.TrimSpace(row.Str("road_record", "")),
		Streak:     strings.TrimSpace(row.Str("streak", "")),
		GamesBack:  row.Float("games_back", 0),
	}, nil
}

func playerFromRosterRow(row nbastats.Row, teamID int64) (player.Player, error) {
	id := row.Int64("player_id", 0)
	if id <= 0 {
		return player.Player{}, fmt.Errorf("%w: roster row has no player id", ErrInvalidInput)
	}

	full := strings.TrimSpace(row.Str("player_name", ""))
	first, last := player.SplitName(full)

	tid := teamID
	return player.Player{
		ID:           id,
		TeamID:       &tid,
		FirstName:    first,
		LastName:     last,
		JerseyNumber: strings.TrimSpace(row.Str("jersey_number", "")),
		Position:     strings.TrimSpace(row.Str("position", "")),
		Height:       strings.TrimSpace(row.Str("height", "")),
		Weight:       strings.TrimSpace(row.Str("weight", "")),
		IsActive:     true,
	}, nil
}

func playerSeasonFromRow(row nbastats.Row, season string) (seasonstats.PlayerSeasonStat, error) {
	id := row.Int64("player_id", 0)
	if id <= 0 {
		return seasonstats.PlayerSeasonStat{}, fmt.Errorf("%w: dash row has no player id", ErrInvalidInput)
	}

	var teamID *int64
	if tid := row.Int64("team_id", 0); tid > 0 {
		teamID = &tid
	}

	return seasonstats.PlayerSeasonStat{
		PlayerID:    id,
		Season:      season,
		TeamID:      teamID,
		GamesPlayed: row.Int("games_played", 0),
		Minutes:     row.Float("minutes", 0),
		Points:      row.Float("points", 0),
		Rebounds:    row.Float("rebounds", 0),
		Assists:     row.Float("assists", 0),
		Steals:      row.Float("steals", 0),
		Blocks:      row.Float("blocks", 0),
		Turnovers:   row.Float("turnovers", 0),
		FGPct:       row.Float("fg_pct", 0),
		FG3Pct:      row.Float("fg3_pct", 0),
		FTPct:       row.Float("ft_pct", 0),
		PlusMinus:   row.Float("plus_minus", 0),
	}, nil
}

func playerSeasonAdvancedFromRow(row nbastats.Row, season string) (seasonstats.PlayerSeasonAdvancedStat, error) {
	id := row.Int64("player_id", 0)
	if id <= 0 {
		return seasonstats.PlayerSeasonAdvancedStat{}, fmt.Errorf("%w: dash row has no player id", ErrInvalidInput)
	}

	var teamID *int64
	if tid := row.Int64("team_id", 0); tid > 0 {
		teamID = &tid
	}

	return seasonstats.PlayerSeasonAdvancedStat{
		PlayerID:    id,
		Season:      season,
		TeamID:      teamID,
		GamesPlayed: row.Int("games_played", 0),
		OffRating:   row.Float("off_rating", 0),
		DefRating:   row.Float("def_rating", 0),
		NetRating:   row.Float("net_rating", 0),
		TSPct:       row.Float("ts_pct", 0),
		EFGPct:      row.Float("efg_pct", 0),
		UsagePct:    row.Float("usg_pct", 0),
		ASTPct:      row.Float("ast_pct", 0),
		RebPct:      row.Float("reb_pct", 0),
		Pace:        row.Float("pace", 0),
		PIE:         row.Float("pie", 0),
	}, nil
}

func teamSeasonAdvancedFromRow(row nbastats.Row, season string) (seasonstats.TeamSeasonAdvancedStat, error) {
	id := row.Int64("team_id", 0)
	if id <= 0 {
		return seasonstats.TeamSeasonAdvancedStat{}, fmt.Errorf("%w: dash row has no team id", ErrInvalidInput)
	}

	return seasonstats.TeamSeasonAdvancedStat{
		TeamID:      id,
		Season:      season,
		GamesPlayed: row.Int("games_played", 0),
		OffRating:   row.Float("off_rating", 0),
		DefRating:   row.Float("def_rating", 0),
		NetRating:   row.Float("net_rating", 0),
		TSPct:       row.Float("ts_pct", 0),
		EFGPct:      row.Float("efg_pct", 0),
		RebPct:      row.Float("reb_pct", 0),
		Pace:        row.Float("pace", 0),
		PIE:         row.Float("pie", 0),
	}, nil
}

func shotFromRow(row nbastats.Row) (shots.ShotEvent, error) {
	gameID := strings.TrimSpace(row.Str("game_id", ""))
	eventID := row.Int64("game_event_id", 0)
	if gameID == "" || eventID <= 0 {
		return shots.ShotEvent{}, fmt.Errorf("%w: shot row missing game or event id", ErrInvalidInput)
	}

	return shots.ShotEvent{
		GameID:      gameID,
		GameEventID: eventID,
		PlayerID:    row.Int64("player_id", 0),
		TeamID:      row.Int64("team_id", 0),
		Period:      row.Int("period", 0),
		LocX:        row.Int("loc_x", 0),
		LocY:        row.Int("loc_y", 0),
		Made:        row.Int("shot_made", 0) == 1,
		Distance:    row.Int("shot_distance", 0),
		ShotType:    strings.TrimSpace(row.Str("shot_type", "")),
		ShotZone:    strings.TrimSpace(row.Str("shot_zone", "")),
		ActionType:  strings.TrimSpace(row.Str("shot_action", "")),
	}, nil
}
