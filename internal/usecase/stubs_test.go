package usecase

import (
	"context"
	"time"

	"github.com/hoopsync/nba-data-sync/external/nbastats"
	"github.com/hoopsync/nba-data-sync/internal/domain/boxscore"
	"github.com/hoopsync/nba-data-sync/internal/domain/game"
	"github.com/hoopsync/nba-data-sync/internal/domain/notification"
	"github.com/hoopsync/nba-data-sync/internal/domain/player"
	"github.com/hoopsync/nba-data-sync/internal/domain/seasonstats"
	"github.com/hoopsync/nba-data-sync/internal/domain/shots"
	"github.com/hoopsync/nba-data-sync/internal/domain/standings"
	"github.com/hoopsync/nba-data-sync/internal/domain/taskqueue"
	"github.com/hoopsync/nba-data-sync/internal/domain/team"
)

// stubProvider answers from canned data. A nil slice or missing map entry
// reads as the provider's absence value.
type stubProvider struct {
	scoreboard     map[string][]nbastats.GameSummary
	boxScores      map[string]*nbastats.BoxScore
	liveBoxScores  map[string]*nbastats.BoxScore
	summaries      map[string]*nbastats.BoxScore
	advancedLines  map[string][]nbastats.AdvancedLine
	standings      []nbastats.Row
	rosters        map[int64][]nbastats.Row
	playerDash     map[nbastats.Measure][]nbastats.Row
	teamDash       map[nbastats.Measure][]nbastats.Row
	shotCharts     map[int64][]nbastats.Row
	scoreboardDown bool
}

func (p *stubProvider) Scoreboard(_ context.Context, date time.Time) ([]nbastats.GameSummary, bool) {
	if p.scoreboardDown {
		return nil, false
	}
	games, ok := p.scoreboard[date.Format("2006-01-02")]
	return games, ok
}

func (p *stubProvider) BoxScoreTraditional(_ context.Context, gameID string) (*nbastats.BoxScore, bool) {
	box, ok := p.boxScores[gameID]
	return box, ok
}

func (p *stubProvider) LiveBoxScore(_ context.Context, gameID string) (*nbastats.BoxScore, bool) {
	box, ok := p.liveBoxScores[gameID]
	return box, ok
}

func (p *stubProvider) BoxScoreSummary(_ context.Context, gameID string) (*nbastats.BoxScore, bool) {
	box, ok := p.summaries[gameID]
	return box, ok
}

func (p *stubProvider) BoxScoreAdvanced(_ context.Context, gameID string) ([]nbastats.AdvancedLine, bool) {
	lines, ok := p.advancedLines[gameID]
	return lines, ok
}

func (p *stubProvider) LeagueStandings(_ context.Context, _ string) ([]nbastats.Row, bool) {
	return p.standings, p.standings != nil
}

func (p *stubProvider) TeamRoster(_ context.Context, teamID int64, _ string) ([]nbastats.Row, bool) {
	roster, ok := p.rosters[teamID]
	return roster, ok
}

func (p *stubProvider) LeagueDashPlayerStats(_ context.Context, _ string, measure nbastats.Measure) ([]nbastats.Row, bool) {
	rows, ok := p.playerDash[measure]
	return rows, ok
}

func (p *stubProvider) LeagueDashTeamStats(_ context.Context, _ string, measure nbastats.Measure) ([]nbastats.Row, bool) {
	rows, ok := p.teamDash[measure]
	return rows, ok
}

func (p *stubProvider) ShotChart(_ context.Context, playerID, _ int64, _ string) ([]nbastats.Row, bool) {
	chart, ok := p.shotCharts[playerID]
	return chart, ok
}

type stubTeamRepo struct {
	ids          []int64
	stored       map[int64]team.Team
	upserted     []team.Team
	bulkErr      error
	rowErr       error
	listIDsCalls int
}

func (r *stubTeamRepo) put(t team.Team) {
	if r.stored == nil {
		r.stored = map[int64]team.Team{}
	}
	r.stored[t.ID] = t
}

func (r *stubTeamRepo) UpsertAll(_ context.Context, teams []team.Team) (int, error) {
	if r.bulkErr != nil {
		return 0, r.bulkErr
	}
	for _, t := range teams {
		r.put(t)
	}
	r.upserted = append(r.upserted, teams...)
	return len(teams), nil
}

func (r *stubTeamRepo) Upsert(_ context.Context, t team.Team) error {
	if r.rowErr != nil {
		return r.rowErr
	}
	r.put(t)
	r.upserted = append(r.upserted, t)
	return nil
}

func (r *stubTeamRepo) List(_ context.Context, limit int) ([]team.Team, error) {
	teams := make([]team.Team, 0, len(r.stored))
	for _, t := range r.stored {
		teams = append(teams, t)
	}
	if limit > 0 && len(teams) > limit {
		teams = teams[:limit]
	}
	return teams, nil
}

func (r *stubTeamRepo) ListIDs(_ context.Context) ([]int64, error) {
	r.listIDsCalls++
	if r.ids != nil {
		return r.ids, nil
	}
	ids := make([]int64, 0, len(r.stored))
	for id := range r.stored {
		ids = append(ids, id)
	}
	return ids, nil
}

type stubPlayerRepo struct {
	ids          []int64
	stored       map[int64]player.Player
	upserted     []player.Player
	listIDsCalls int
}

func (r *stubPlayerRepo) put(p player.Player) {
	if r.stored == nil {
		r.stored = map[int64]player.Player{}
	}
	r.stored[p.ID] = p
}

func (r *stubPlayerRepo) UpsertAll(_ context.Context, players []player.Player) (int, error) {
	for _, p := range players {
		r.put(p)
	}
	r.upserted = append(r.upserted, players...)
	return len(players), nil
}

func (r *stubPlayerRepo) Upsert(_ context.Context, p player.Player) error {
	r.put(p)
	r.upserted = append(r.upserted, p)
	return nil
}

func (r *stubPlayerRepo) List(_ context.Context, limit int) ([]player.Player, error) {
	players := make([]player.Player, 0, len(r.stored))
	for _, p := range r.stored {
		players = append(players, p)
	}
	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

func (r *stubPlayerRepo) ListIDs(_ context.Context) ([]int64, error) {
	r.listIDsCalls++
	if r.ids != nil {
		return r.ids, nil
	}
	ids := make([]int64, 0, len(r.stored))
	for id := range r.stored {
		ids = append(ids, id)
	}
	return ids, nil
}

type stubGameRepo struct {
	games map[string]*game.Game

	upserted      []game.Game
	statusUpdates []string
	liveOrSoon    []game.Game
	pastScheduled []game.Game
	missingScores []game.Game
	withoutStats  []game.Game
	byDate        map[string][]game.Game

	listByDateCalls int
}

func newStubGameRepo() *stubGameRepo {
	return &stubGameRepo{games: map[string]*game.Game{}, byDate: map[string][]game.Game{}}
}

func (r *stubGameRepo) put(g game.Game) {
	copied := g
	r.games[g.ID] = &copied
}

func (r *stubGameRepo) UpsertAll(_ context.Context, games []game.Game) (int, error) {
	for _, g := range games {
		r.put(g)
	}
	r.upserted = append(r.upserted, games...)
	return len(games), nil
}

func (r *stubGameRepo) Upsert(_ context.Context, g game.Game) error {
	r.put(g)
	r.upserted = append(r.upserted, g)
	return nil
}

func (r *stubGameRepo) GetByID(_ context.Context, gameID string) (*game.Game, error) {
	g, ok := r.games[gameID]
	if !ok {
		return nil, nil
	}
	copied := *g
	return &copied, nil
}

func (r *stubGameRepo) ListByDate(_ context.Context, date time.Time) ([]game.Game, error) {
	r.listByDateCalls++
	if rows, ok := r.byDate[date.Format("2006-01-02")]; ok {
		return rows, nil
	}
	var rows []game.Game
	day := date.Format("2006-01-02")
	for _, g := range r.games {
		if g.DateTime.Format("2006-01-02") == day {
			rows = append(rows, *g)
		}
	}
	return rows, nil
}

func (r *stubGameRepo) ListDatesWithGames(_ context.Context, _, _ time.Time) ([]time.Time, error) {
	return nil, nil
}

func (r *stubGameRepo) UpdateScoreStatus(_ context.Context, gameID string, homeScore, awayScore *int, status string) error {
	if g, ok := r.games[gameID]; ok {
		g.HomeScore = homeScore
		g.AwayScore = awayScore
		g.Status = status
	}
	r.statusUpdates = append(r.statusUpdates, gameID)
	return nil
}

func (r *stubGameRepo) ListLiveOrUpcoming(_ context.Context, _ time.Time, _ time.Duration) ([]game.Game, error) {
	return r.liveOrSoon, nil
}

func (r *stubGameRepo) ListPastStillScheduled(_ context.Context, _ time.Time, _ int) ([]game.Game, error) {
	return r.pastScheduled, nil
}

func (r *stubGameRepo) ListFinalMissingScores(_ context.Context, _ int) ([]game.Game, error) {
	return r.missingScores, nil
}

func (r *stubGameRepo) ListFinalWithoutPlayerStats(_ context.Context, _, _ time.Time, _ int) ([]game.Game, error) {
	return r.withoutStats, nil
}

type stubStatsRepo struct {
	rows    map[string][]boxscore.GamePlayerStat
	deletes []string
	bulkErr error
	rowErr  error
}

func newStubStatsRepo() *stubStatsRepo {
	return &stubStatsRepo{rows: map[string][]boxscore.GamePlayerStat{}}
}

func (r *stubStatsRepo) DeleteForGame(_ context.Context, gameID string) error {
	delete(r.rows, gameID)
	r.deletes = append(r.deletes, gameID)
	return nil
}

func (r *stubStatsRepo) InsertAll(_ context.Context, rows []boxscore.GamePlayerStat) (int, error) {
	if r.bulkErr != nil {
		return 0, r.bulkErr
	}
	for _, row := range rows {
		r.rows[row.GameID] = append(r.rows[row.GameID], row)
	}
	return len(rows), nil
}

func (r *stubStatsRepo) Insert(_ context.Context, row boxscore.GamePlayerStat) error {
	if r.rowErr != nil {
		return r.rowErr
	}
	r.rows[row.GameID] = append(r.rows[row.GameID], row)
	return nil
}

func (r *stubStatsRepo) ListForGame(_ context.Context, gameID string, limit int) ([]boxscore.GamePlayerStat, error) {
	rows := r.rows[gameID]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *stubStatsRepo) CountForGame(_ context.Context, gameID string) (int, error) {
	return len(r.rows[gameID]), nil
}

type stubAdvancedRepo struct {
	rows map[string][]boxscore.GamePlayerAdvancedStat
}

func newStubAdvancedRepo() *stubAdvancedRepo {
	return &stubAdvancedRepo{rows: map[string][]boxscore.GamePlayerAdvancedStat{}}
}

func (r *stubAdvancedRepo) UpsertAll(_ context.Context, rows []boxscore.GamePlayerAdvancedStat) (int, error) {
	for _, row := range rows {
		r.rows[row.GameID] = append(r.rows[row.GameID], row)
	}
	return len(rows), nil
}

func (r *stubAdvancedRepo) Upsert(_ context.Context, row boxscore.GamePlayerAdvancedStat) error {
	r.rows[row.GameID] = append(r.rows[row.GameID], row)
	return nil
}

func (r *stubAdvancedRepo) ListForGame(_ context.Context, gameID string, _ int) ([]boxscore.GamePlayerAdvancedStat, error) {
	return r.rows[gameID], nil
}

func (r *stubAdvancedRepo) CountForGame(_ context.Context, gameID string) (int, error) {
	return len(r.rows[gameID]), nil
}

type stubSeasonRepo struct {
	playerStats    []seasonstats.PlayerSeasonStat
	playerAdvanced []seasonstats.PlayerSeasonAdvancedStat
	teamAdvanced   []seasonstats.TeamSeasonAdvancedStat
}

func (r *stubSeasonRepo) UpsertPlayerStats(_ context.Context, rows []seasonstats.PlayerSeasonStat) (int, error) {
	r.playerStats = append(r.playerStats, rows...)
	return len(rows), nil
}

func (r *stubSeasonRepo) UpsertPlayerAdvanced(_ context.Context, rows []seasonstats.PlayerSeasonAdvancedStat) (int, error) {
	r.playerAdvanced = append(r.playerAdvanced, rows...)
	return len(rows), nil
}

func (r *stubSeasonRepo) UpsertTeamAdvanced(_ context.Context, rows []seasonstats.TeamSeasonAdvancedStat) (int, error) {
	r.teamAdvanced = append(r.teamAdvanced, rows...)
	return len(rows), nil
}

func (r *stubSeasonRepo) ListPlayerStats(_ context.Context, _ string, _ int) ([]seasonstats.PlayerSeasonStat, error) {
	return r.playerStats, nil
}

type stubStandingsRepo struct {
	rows []standings.TeamStanding
}

func (r *stubStandingsRepo) UpsertAll(_ context.Context, rows []standings.TeamStanding) (int, error) {
	r.rows = append(r.rows, rows...)
	return len(rows), nil
}

func (r *stubStandingsRepo) Upsert(_ context.Context, row standings.TeamStanding) error {
	r.rows = append(r.rows, row)
	return nil
}

func (r *stubStandingsRepo) List(_ context.Context, _ string, _ int) ([]standings.TeamStanding, error) {
	return r.rows, nil
}

type stubShotRepo struct {
	rows    map[string][]shots.ShotEvent
	deletes []string
}

func newStubShotRepo() *stubShotRepo {
	return &stubShotRepo{rows: map[string][]shots.ShotEvent{}}
}

func (r *stubShotRepo) DeleteForPlayerGame(_ context.Context, gameID string, playerID int64) error {
	kept := r.rows[gameID][:0]
	for _, row := range r.rows[gameID] {
		if row.PlayerID != playerID {
			kept = append(kept, row)
		}
	}
	r.rows[gameID] = kept
	r.deletes = append(r.deletes, gameID)
	return nil
}

func (r *stubShotRepo) InsertAll(_ context.Context, rows []shots.ShotEvent) (int, error) {
	for _, row := range rows {
		r.rows[row.GameID] = append(r.rows[row.GameID], row)
	}
	return len(rows), nil
}

func (r *stubShotRepo) Insert(_ context.Context, row shots.ShotEvent) error {
	r.rows[row.GameID] = append(r.rows[row.GameID], row)
	return nil
}

func (r *stubShotRepo) ListForGame(_ context.Context, gameID string, _ int) ([]shots.ShotEvent, error) {
	return r.rows[gameID], nil
}

type stubNotificationRepo struct {
	written []notification.Notification
}

func (r *stubNotificationRepo) InsertUnique(_ context.Context, n notification.Notification) (bool, error) {
	for _, existing := range r.written {
		if existing.GameID == n.GameID && existing.Kind == n.Kind {
			return false, nil
		}
	}
	r.written = append(r.written, n)
	return true, nil
}

type stubTaskRepo struct {
	enqueued []taskqueue.Task
	nextID   int64
}

func (r *stubTaskRepo) NextPending(_ context.Context) (*taskqueue.Task, error) {
	if len(r.enqueued) == 0 {
		return nil, nil
	}
	copied := r.enqueued[0]
	return &copied, nil
}

func (r *stubTaskRepo) Claim(_ context.Context, _ int64) (bool, error) { return true, nil }

func (r *stubTaskRepo) MarkCompleted(_ context.Context, _ int64) error { return nil }

func (r *stubTaskRepo) MarkFailed(_ context.Context, _ int64, _ string) error { return nil }

func (r *stubTaskRepo) Enqueue(_ context.Context, taskType string, payload []byte) (int64, error) {
	r.nextID++
	r.enqueued = append(r.enqueued, taskqueue.Task{
		ID:         r.nextID,
		Type:       taskType,
		RawPayload: payload,
		Status:     taskqueue.StatusPending,
	})
	return r.nextID, nil
}
