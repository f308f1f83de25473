package nbastats

import (
	"strconv"
	"strings"
)

// statsEnvelope is the classic stats-API response shape: named result sets,
// each a header list plus positional rows.
type statsEnvelope struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// Row is one result-set row keyed by header name.
type Row map[string]any

func (e *statsEnvelope) rows(name string) []Row {
	for _, set := range e.ResultSets {
		if !strings.EqualFold(set.Name, name) {
			continue
		}
		out := make([]Row, 0, len(set.RowSet))
		for _, raw := range set.RowSet {
			row := make(Row, len(set.Headers))
			for i, header := range set.Headers {
				if i < len(raw) {
					row[header] = raw[i]
				}
			}
			out = append(out, row)
		}
		return out
	}
	return nil
}

// fieldAliases is the versioned alias table: every logical field name maps
// to the ordered list of header spellings the provider has used over time.
// The first present, non-nil candidate wins. Adding a new upstream rename is
// a data change here, never a code change at a call site.
var fieldAliases = map[string][]string{
	"game_id":          {"GAME_ID", "GameID", "gameId"},
	"game_status_id":   {"GAME_STATUS_ID", "GameStatusID", "gameStatus"},
	"game_status_text": {"GAME_STATUS_TEXT", "GameStatusText", "gameStatusText"},
	"game_date_est":    {"GAME_DATE_EST", "GameDateEST", "GAME_DATE"},
	"game_sequence":    {"GAME_SEQUENCE", "GameSequence"},
	"season":           {"SEASON", "SeasonYear", "SEASON_YEAR"},
	"arena_name":       {"ARENA_NAME", "ArenaName", "ARENA"},
	"home_team_id":     {"HOME_TEAM_ID", "HomeTeamID"},
	"away_team_id":     {"VISITOR_TEAM_ID", "AWAY_TEAM_ID", "VisitorTeamID"},

	"team_id":         {"TEAM_ID", "TeamID", "teamId", "id"},
	"team_name":       {"TEAM_NAME", "TeamName", "Name", "NICKNAME"},
	"team_city":       {"TEAM_CITY", "TeamCity", "CITY"},
	"team_code":       {"TEAM_ABBREVIATION", "TeamAbbreviation", "ABBREVIATION", "TeamSlug"},
	"team_conference": {"CONFERENCE", "Conference", "TEAM_CONFERENCE"},

	"wins":       {"WINS", "Wins", "W", "Win"},
	"losses":     {"LOSSES", "Losses", "L", "Loss"},
	"win_pct":    {"WinPCT", "W_PCT", "WIN_PCT", "WinPct"},
	"conf_rank":  {"PlayoffRank", "ConferenceRank", "CONF_RANK", "PlayoffSeeding"},
	"home_record": {"HOME", "HOME_RECORD", "HomeRecord"},
	"road_record": {"ROAD", "ROAD_RECORD", "RoadRecord"},
	"streak":      {"strCurrentStreak", "CurrentStreak", "STRK"},
	"games_back":  {"ConferenceGamesBack", "GB", "GAMES_BACK"},

	"player_id":     {"PLAYER_ID", "PlayerID", "personId"},
	"player_name":   {"PLAYER", "PLAYER_NAME", "PlayerName", "DISPLAY_FIRST_LAST"},
	"jersey_number": {"NUM", "JERSEY_NUMBER", "Jersey"},
	"position":      {"POSITION", "Position"},
	"height":        {"HEIGHT", "Height"},
	"weight":        {"WEIGHT", "Weight"},
	"roster_status": {"ROSTERSTATUS", "RosterStatus"},

	"games_played": {"GP", "GAMES_PLAYED", "GamesPlayed"},
	"minutes":      {"MIN", "MINUTES"},
	"points":       {"PTS", "Points"},
	"rebounds":     {"REB", "TotalRebounds"},
	"assists":      {"AST", "Assists"},
	"steals":       {"STL", "Steals"},
	"blocks":       {"BLK", "Blocks"},
	"turnovers":    {"TOV", "TO", "Turnovers"},
	"fg_pct":       {"FG_PCT", "FieldGoalPct"},
	"fg3_pct":      {"FG3_PCT", "ThreePointPct"},
	"ft_pct":       {"FT_PCT", "FreeThrowPct"},
	"plus_minus":   {"PLUS_MINUS", "PlusMinus"},

	"off_rating": {"OFF_RATING", "OffRating", "E_OFF_RATING"},
	"def_rating": {"DEF_RATING", "DefRating", "E_DEF_RATING"},
	"net_rating": {"NET_RATING", "NetRating", "E_NET_RATING"},
	"ts_pct":     {"TS_PCT", "TruePct"},
	"efg_pct":    {"EFG_PCT", "EffectiveFgPct"},
	"usg_pct":    {"USG_PCT", "UsagePct", "E_USG_PCT"},
	"ast_pct":    {"AST_PCT"},
	"reb_pct":    {"REB_PCT"},
	"pace":       {"PACE", "E_PACE"},
	"pie":        {"PIE"},

	"game_event_id":   {"GAME_EVENT_ID", "GameEventID"},
	"period":          {"PERIOD", "Period"},
	"loc_x":           {"LOC_X"},
	"loc_y":           {"LOC_Y"},
	"shot_made":       {"SHOT_MADE_FLAG", "ShotMadeFlag"},
	"shot_distance":   {"SHOT_DISTANCE", "ShotDistance"},
	"shot_type":       {"SHOT_TYPE", "ShotType"},
	"shot_zone":       {"SHOT_ZONE_BASIC", "ShotZoneBasic"},
	"shot_action":     {"ACTION_TYPE", "ActionType"},
}

func (r Row) lookup(field string) (any, bool) {
	candidates, ok := fieldAliases[field]
	if !ok {
		candidates = []string{field}
	}
	for _, key := range candidates {
		if value, present := r[key]; present && value != nil {
			return value, true
		}
	}
	return nil, false
}

// Has reports whether the logical field resolves to a present value.
func (r Row) Has(field string) bool {
	_, ok := r.lookup(field)
	return ok
}

// Int coerces the logical field totally: missing or unparsable values fall
// back to def instead of surfacing a null-handling error per row.
func (r Row) Int(field string, def int) int {
	value, ok := r.lookup(field)
	if !ok {
		return def
	}
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return parsed
		}
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return int(parsed)
		}
	}
	return def
}

func (r Row) Int64(field string, def int64) int64 {
	value, ok := r.lookup(field)
	if !ok {
		return def
	}
	switch v := value.(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		if parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return parsed
		}
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return int64(parsed)
		}
	}
	return def
}

func (r Row) Float(field string, def float64) float64 {
	value, ok := r.lookup(field)
	if !ok {
		return def
	}
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return parsed
		}
	}
	return def
}

func (r Row) Str(field, def string) string {
	value, ok := r.lookup(field)
	if !ok {
		return def
	}
	switch v := value.(type) {
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
		return def
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	}
	return def
}

// IntPtr is Int for optional columns; a missing value stays nil so callers
// can tell "no score yet" from zero.
func (r Row) IntPtr(field string) *int {
	if !r.Has(field) {
		return nil
	}
	v := r.Int(field, 0)
	return &v
}
