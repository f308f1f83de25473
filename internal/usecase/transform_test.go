package usecase

import (
	"testing"
	"time"

	"github.com/hoopsync/nba-data-sync/external/nbastats"
	"github.com/hoopsync/nba-data-sync/internal/domain/fantasy"
	"github.com/hoopsync/nba-data-sync/internal/domain/game"
)

func TestParseGameTime_EasternToUTC(t *testing.T) {
	t.Parallel()

	// 7:30pm Eastern on a winter date is 00:30 UTC the next day.
	got, tbd, err := parseGameTime("2026-01-15T19:30:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tbd {
		t.Fatal("announced tip-off must not be flagged TBD")
	}
	want := time.Date(2026, 1, 16, 0, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseGameTime_DateOnlyIsTBD(t *testing.T) {
	t.Parallel()

	got, tbd, err := parseGameTime("2026-01-15")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !tbd {
		t.Fatal("date-only value must be flagged TBD")
	}
	if got.Hour() != 12 || !got.Equal(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("date-only value must pin to noon UTC, got %v", got)
	}
}

func TestParseGameTime_MidnightUTCIsTBD(t *testing.T) {
	t.Parallel()

	// 7pm Eastern in winter lands on exactly midnight UTC, the provider's
	// placeholder for an unannounced time.
	_, tbd, err := parseGameTime("2026-01-15T19:00:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !tbd {
		t.Fatal("exact midnight UTC must be flagged TBD")
	}

	// One minute later is a real tip-off time.
	_, tbd, err = parseGameTime("2026-01-15T19:01:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tbd {
		t.Fatal("00:01 UTC must not be flagged TBD")
	}
}

func TestParseGameTime_RejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "soon", "15/01/2026"} {
		if _, _, err := parseGameTime(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{"PT15M54.70S", "15:54"},
		{"PT0M00.00S", "0:00"},
		{"PT36M05.00S", "36:05"},
		{"", "0:00"},
		{"23:45", "23:45"},
	}
	for _, tc := range cases {
		if got := formatMinutes(tc.raw); got != tc.want {
			t.Fatalf("formatMinutes(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSeasonForDate_OctoberBoundary(t *testing.T) {
	t.Parallel()

	if got := game.SeasonForDate(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)); got != "2025-26" {
		t.Fatalf("october belongs to the new season, got %q", got)
	}
	if got := game.SeasonForDate(time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)); got != "2025-26" {
		t.Fatalf("april belongs to the prior season, got %q", got)
	}
}

func TestGameFromSummary(t *testing.T) {
	t.Parallel()

	home, away := 112, 108
	g, err := gameFromSummary(nbastats.GameSummary{
		GameID:      "0022500123",
		StatusCode:  3,
		GameDateEST: "2026-01-15T19:30:00",
		Season:      "2025",
		Arena:       "Crypto.com Arena",
		HomeTeamID:  1610612747,
		AwayTeamID:  1610612738,
		HomeScore:   &home,
		AwayScore:   &away,
	})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	if g.Season != "2025-26" {
		t.Fatalf("season start year must expand to a label, got %q", g.Season)
	}
	if g.Status != game.StatusFinal {
		t.Fatalf("status code 3 must map to Final, got %q", g.Status)
	}
	if g.IsPlayoff {
		t.Fatal("prefix 00 is a regular season game")
	}
	if g.Arena == nil || *g.Arena != "Crypto.com Arena" {
		t.Fatal("arena must carry through")
	}
}

func TestGameFromSummary_PlayoffPrefix(t *testing.T) {
	t.Parallel()

	g, err := gameFromSummary(nbastats.GameSummary{
		GameID:      "0042500101",
		GameDateEST: "2026-05-01T20:00:00",
		HomeTeamID:  1,
		AwayTeamID:  2,
	})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if !g.IsPlayoff {
		t.Fatal("non-00 prefix must mark the game as playoff")
	}
}

func TestGameFromSummary_RejectsMissingIDs(t *testing.T) {
	t.Parallel()

	if _, err := gameFromSummary(nbastats.GameSummary{GameDateEST: "2026-01-15"}); err == nil {
		t.Fatal("expected error for missing game id")
	}
	if _, err := gameFromSummary(nbastats.GameSummary{
		GameID:      "0022500123",
		GameDateEST: "2026-01-15",
	}); err == nil {
		t.Fatal("expected error for missing team ids")
	}
}

func TestStatFromPlayerLine_AppliesScoring(t *testing.T) {
	t.Parallel()

	scoring := fantasy.DefaultScoring()
	stat := statFromPlayerLine("0022500123", nbastats.PlayerLine{
		PlayerID: 2544,
		TeamID:   1610612747,
		Minutes:  "PT38M12.40S",
		Points:   30,
		Rebounds: 8,
		Assists:  9,
	}, scoring)

	if stat.Minutes != "38:12" {
		t.Fatalf("minutes not normalized, got %q", stat.Minutes)
	}
	want := scoring.Score(fantasy.StatLine{Points: 30, Rebounds: 8, Assists: 9})
	if stat.FantasyScore != want {
		t.Fatalf("fantasy score %v, want %v", stat.FantasyScore, want)
	}
}

func TestTeamFromStandingRow(t *testing.T) {
	t.Parallel()

	tm, err := teamFromStandingRow(nbastats.Row{
		"TeamID":     float64(1610612738),
		"TeamName":   "Celtics",
		"TeamCity":   "Boston",
		"TeamSlug":   "celtics",
		"Conference": "East",
	})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if tm.ID != 1610612738 || tm.Name != "Celtics" || tm.Conference != "East" {
		t.Fatalf("unexpected team %+v", tm)
	}
	if tm.LogoURL == "" {
		t.Fatal("logo url must be derived from the team id")
	}
}

func TestStandingFromRow(t *testing.T) {
	t.Parallel()

	row := nbastats.Row{
		"TeamID":              float64(1610612738),
		"WINS":                float64(48),
		"LOSSES":              float64(20),
		"WinPCT":              0.706,
		"PlayoffRank":         float64(1),
		"HOME":                "27-7",
		"ROAD":                "21-13",
		"strCurrentStreak":    "W 4",
		"ConferenceGamesBack": 0.0,
	}
	standing, err := standingFromRow(row, "2025-26")
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if standing.Wins != 48 || standing.Losses != 20 || standing.ConfRank != 1 {
		t.Fatalf("unexpected standing %+v", standing)
	}
	if standing.HomeRecord != "27-7" || standing.Streak != "W 4" {
		t.Fatalf("unexpected records %+v", standing)
	}
}

func TestPlayerFromRosterRow_SplitsName(t *testing.T) {
	t.Parallel()

	p, err := playerFromRosterRow(nbastats.Row{
		"PLAYER_ID": float64(1629029),
		"PLAYER":    "Shai Gilgeous-Alexander",
		"NUM":       "2",
		"POSITION":  "G",
	}, 1610612760)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if p.FirstName != "Shai" || p.LastName != "Gilgeous-Alexander" {
		t.Fatalf("name split wrong: %q %q", p.FirstName, p.LastName)
	}
	if p.TeamID == nil || *p.TeamID != 1610612760 {
		t.Fatal("team id must come from the roster context")
	}
}

func TestShotFromRow(t *testing.T) {
	t.Parallel()

	event, err := shotFromRow(nbastats.Row{
		"GAME_ID":         "0022500123",
		"GAME_EVENT_ID":   float64(412),
		"PLAYER_ID":       float64(2544),
		"TEAM_ID":         float64(1610612747),
		"PERIOD":          float64(3),
		"LOC_X":           float64(-118),
		"LOC_Y":           float64(232),
		"SHOT_MADE_FLAG":  float64(1),
		"SHOT_DISTANCE":   float64(26),
		"SHOT_TYPE":       "3PT Field Goal",
		"SHOT_ZONE_BASIC": "Above the Break 3",
		"ACTION_TYPE":     "Pullup Jump shot",
	})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if !event.Made || event.LocX != -118 || event.Period != 3 {
		t.Fatalf("unexpected event %+v", event)
	}

	if _, err := shotFromRow(nbastats.Row{"GAME_ID": "0022500123"}); err == nil {
		t.Fatal("expected error for missing event id")
	}
}

func TestPlayerSeasonAdvancedFromRow(t *testing.T) {
	t.Parallel()

	stat, err := playerSeasonAdvancedFromRow(nbastats.Row{
		"PLAYER_ID":  float64(2544),
		"TEAM_ID":    float64(1610612747),
		"GP":         float64(61),
		"OFF_RATING": 116.2,
		"NET_RATING": 7.4,
		"USG_PCT":    0.31,
		"PIE":        0.182,
	}, "2025-26")
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if stat.GamesPlayed != 61 || stat.OffRating != 116.2 || stat.UsagePct != 0.31 {
		t.Fatalf("unexpected stat %+v", stat)
	}
	if stat.TeamID == nil || *stat.TeamID != 1610612747 {
		t.Fatal("team id must carry through when present")
	}
}
