package nbastats

import (
	"context"
	"net/url"
	"strings"
)

// PlayerLine is one player's traditional box-score line as the provider
// shapes it. Minutes keep the raw source text (ISO8601 duration from the V3
// endpoints, "MM:SS" from the CDN feed).
type PlayerLine struct {
	PlayerID  int64
	TeamID    int64
	Name      string
	Minutes   string
	Points    int
	Rebounds  int
	OffReb    int
	DefReb    int
	Assists   int
	Steals    int
	Blocks    int
	Turnovers int
	Fouls     int
	FGM       int
	FGA       int
	FG3M      int
	FG3A      int
	FTM       int
	FTA       int
	PlusMinus int
}

// AdvancedLine is one player's advanced box-score line.
type AdvancedLine struct {
	PlayerID    int64
	TeamID      int64
	Minutes     string
	OffRating   float64
	DefRating   float64
	NetRating   float64
	TSPct       float64
	EFGPct      float64
	ASTPct      float64
	ASTToTO     float64
	ASTRatio    float64
	TOVPct      float64
	ORebPct     float64
	DRebPct     float64
	RebPct      float64
	UsagePct    float64
	Pace        float64
	PIE         float64
	Possessions int
}

// BoxScore is a full game snapshot from one of the deep endpoints.
type BoxScore struct {
	GameID     string
	StatusCode int
	Period     int
	GameClock  string
	HomeTeamID int64
	AwayTeamID int64
	HomeScore  *int
	AwayScore  *int
	Players    []PlayerLine
}

type boxStatisticsV3 struct {
	Minutes              string  `json:"minutes"`
	Points               float64 `json:"points"`
	ReboundsTotal        float64 `json:"reboundsTotal"`
	ReboundsOffensive    float64 `json:"reboundsOffensive"`
	ReboundsDefensive    float64 `json:"reboundsDefensive"`
	Assists              float64 `json:"assists"`
	Steals               float64 `json:"steals"`
	Blocks               float64 `json:"blocks"`
	Turnovers            float64 `json:"turnovers"`
	FoulsPersonal        float64 `json:"foulsPersonal"`
	FieldGoalsMade       float64 `json:"fieldGoalsMade"`
	FieldGoalsAttempted  float64 `json:"fieldGoalsAttempted"`
	ThreePointersMade    float64 `json:"threePointersMade"`
	ThreePointersAttempted float64 `json:"threePointersAttempted"`
	FreeThrowsMade       float64 `json:"freeThrowsMade"`
	FreeThrowsAttempted  float64 `json:"freeThrowsAttempted"`
	PlusMinusPoints      float64 `json:"plusMinusPoints"`
}

type boxPlayerV3 struct {
	PersonID   int64           `json:"personId"`
	FirstName  string          `json:"firstName"`
	FamilyName string          `json:"familyName"`
	Name       string          `json:"name"`
	Statistics boxStatisticsV3 `json:"statistics"`
}

type boxTeamV3 struct {
	TeamID  int64         `json:"teamId"`
	Score   *int          `json:"score"`
	Players []boxPlayerV3 `json:"players"`
}

type boxScoreTraditionalV3 struct {
	GameID     string    `json:"gameId"`
	GameStatus int       `json:"gameStatus"`
	Period     int       `json:"period"`
	GameClock  string    `json:"gameClock"`
	HomeTeam   boxTeamV3 `json:"homeTeam"`
	AwayTeam   boxTeamV3 `json:"awayTeam"`
}

// BoxScoreTraditional is the deep per-game fetch, richer and slower than the
// scoreboard row.
func (c *Client) BoxScoreTraditional(ctx context.Context, gameID string) (*BoxScore, bool) {
	query := url.Values{}
	query.Set("GameID", gameID)

	var envelope struct {
		BoxScoreTraditional boxScoreTraditionalV3 `json:"boxScoreTraditional"`
	}
	if !c.getJSON(ctx, "boxscore_traditional", c.statsBaseURL, "/boxscoretraditionalv3", query, statsHeaders, &envelope) {
		return nil, false
	}

	return traditionalToBoxScore(gameID, envelope.BoxScoreTraditional), true
}

// LiveBoxScore reads the CDN live feed, which is cheap, uncredentialed, and
// updated during play. Used as the first choice for in-progress games.
func (c *Client) LiveBoxScore(ctx context.Context, gameID string) (*BoxScore, bool) {
	var envelope struct {
		Game boxScoreTraditionalV3 `json:"game"`
	}
	path := "/liveData/boxscore/boxscore_" + gameID + ".json"
	if !c.getJSON(ctx, "boxscore_live", c.cdnBaseURL, path, nil, cdnHeaders, &envelope) {
		return nil, false
	}

	return traditionalToBoxScore(gameID, envelope.Game), true
}

// BoxScoreSummary fetches game status, period, and team scores without
// player lines. The fallback when a traditional fetch has stale scores.
func (c *Client) BoxScoreSummary(ctx context.Context, gameID string) (*BoxScore, bool) {
	query := url.Values{}
	query.Set("GameID", gameID)

	var envelope struct {
		BoxScoreSummary boxScoreTraditionalV3 `json:"boxScoreSummary"`
	}
	if !c.getJSON(ctx, "boxscore_summary", c.statsBaseURL, "/boxscoresummaryv3", query, statsHeaders, &envelope) {
		return nil, false
	}

	summary := envelope.BoxScoreSummary
	summary.HomeTeam.Players = nil
	summary.AwayTeam.Players = nil
	return traditionalToBoxScore(gameID, summary), true
}

func traditionalToBoxScore(gameID string, src boxScoreTraditionalV3) *BoxScore {
	box := &BoxScore{
		GameID:     firstNonEmpty(src.GameID, gameID),
		StatusCode: src.GameStatus,
		Period:     src.Period,
		GameClock:  src.GameClock,
		HomeTeamID: src.HomeTeam.TeamID,
		AwayTeamID: src.AwayTeam.TeamID,
		HomeScore:  src.HomeTeam.Score,
		AwayScore:  src.AwayTeam.Score,
	}

	box.Players = make([]PlayerLine, 0, len(src.HomeTeam.Players)+len(src.AwayTeam.Players))
	for _, side := range []boxTeamV3{src.HomeTeam, src.AwayTeam} {
		for _, p := range side.Players {
			if p.PersonID == 0 {
				continue
			}
			box.Players = append(box.Players, playerLineFromV3(side.TeamID, p))
		}
	}
	return box
}

func playerLineFromV3(teamID int64, p boxPlayerV3) PlayerLine {
	name := strings.TrimSpace(p.FirstName + " " + p.FamilyName)
	if name == "" {
		name = p.Name
	}
	s := p.Statistics
	return PlayerLine{
		PlayerID:  p.PersonID,
		TeamID:    teamID,
		Name:      name,
		Minutes:   s.Minutes,
		Points:    int(s.Points),
		Rebounds:  int(s.ReboundsTotal),
		OffReb:    int(s.ReboundsOffensive),
		DefReb:    int(s.ReboundsDefensive),
		Assists:   int(s.Assists),
		Steals:    int(s.Steals),
		Blocks:    int(s.Blocks),
		Turnovers: int(s.Turnovers),
		Fouls:     int(s.FoulsPersonal),
		FGM:       int(s.FieldGoalsMade),
		FGA:       int(s.FieldGoalsAttempted),
		FG3M:      int(s.ThreePointersMade),
		FG3A:      int(s.ThreePointersAttempted),
		FTM:       int(s.FreeThrowsMade),
		FTA:       int(s.FreeThrowsAttempted),
		PlusMinus: int(s.PlusMinusPoints),
	}
}

type advStatisticsV3 struct {
	Minutes           string  `json:"minutes"`
	OffensiveRating   float64 `json:"offensiveRating"`
	DefensiveRating   float64 `json:"defensiveRating"`
	NetRating         float64 `json:"netRating"`
	TrueShootingPct   float64 `json:"trueShootingPercentage"`
	EffectiveFGPct    float64 `json:"effectiveFieldGoalPercentage"`
	AssistPct         float64 `json:"assistPercentage"`
	AssistToTurnover  float64 `json:"assistToTurnover"`
	AssistRatio       float64 `json:"assistRatio"`
	TurnoverRatio     float64 `json:"turnoverRatio"`
	OffReboundPct     float64 `json:"offensiveReboundPercentage"`
	DefReboundPct     float64 `json:"defensiveReboundPercentage"`
	ReboundPct        float64 `json:"reboundPercentage"`
	UsagePct          float64 `json:"usagePercentage"`
	Pace              float64 `json:"pace"`
	PIE               float64 `json:"PIE"`
	Possessions       float64 `json:"possessions"`
}

type advPlayerV3 struct {
	PersonID   int64           `json:"personId"`
	Statistics advStatisticsV3 `json:"statistics"`
}

type advTeamV3 struct {
	TeamID  int64         `json:"teamId"`
	Players []advPlayerV3 `json:"players"`
}

// BoxScoreAdvanced fetches per-player efficiency lines for a finished game.
func (c *Client) BoxScoreAdvanced(ctx context.Context, gameID string) ([]AdvancedLine, bool) {
	query := url.Values{}
	query.Set("GameID", gameID)

	var envelope struct {
		BoxScoreAdvanced struct {
			HomeTeam advTeamV3 `json:"homeTeam"`
			AwayTeam advTeamV3 `json:"awayTeam"`
		} `json:"boxScoreAdvanced"`
	}
	if !c.getJSON(ctx, "boxscore_advanced", c.statsBaseURL, "/boxscoreadvancedv3", query, statsHeaders, &envelope) {
		return nil, false
	}

	lines := make([]AdvancedLine, 0, len(envelope.BoxScoreAdvanced.HomeTeam.Players)+len(envelope.BoxScoreAdvanced.AwayTeam.Players))
	for _, side := range []advTeamV3{envelope.BoxScoreAdvanced.HomeTeam, envelope.BoxScoreAdvanced.AwayTeam} {
		for _, p := range side.Players {
			if p.PersonID == 0 {
				continue
			}
			s := p.Statistics
			lines = append(lines, AdvancedLine{
				PlayerID:    p.PersonID,
				TeamID:      side.TeamID,
				Minutes:     s.Minutes,
				OffRating:   s.OffensiveRating,
				DefRating:   s.DefensiveRating,
				NetRating:   s.NetRating,
				TSPct:       s.TrueShootingPct,
				EFGPct:      s.EffectiveFGPct,
				ASTPct:      s.AssistPct,
				ASTToTO:     s.AssistToTurnover,
				ASTRatio:    s.AssistRatio,
				TOVPct:      s.TurnoverRatio,
				ORebPct:     s.OffReboundPct,
				DRebPct:     s.DefReboundPct,
				RebPct:      s.ReboundPct,
				UsagePct:    s.UsagePct,
				Pace:        s.Pace,
				PIE:         s.PIE,
				Possessions: int(s.Possessions),
			})
		}
	}

	return lines, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
