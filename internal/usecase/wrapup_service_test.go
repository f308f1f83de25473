package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopsync/nba-data-sync/external/nbastats"
)

type wrapUpFixture struct {
	svc       *WrapUpService
	season    *stubSeasonRepo
	standings *stubStandingsRepo
}

func newWrapUpForTest(provider *stubProvider) *wrapUpFixture {
	gameRepo := newStubGameRepo()
	teamRepo := &stubTeamRepo{ids: []int64{1610612747}}
	seasonRepo := &stubSeasonRepo{}
	standingsRepo := &stubStandingsRepo{}

	games := NewGameSyncService(provider, gameRepo, teamRepo, nil, time.UTC, nil)
	games.now = fixedNow
	standings := NewStandingsSyncService(provider, teamRepo, standingsRepo, nil)
	standings.now = fixedNow
	season := NewSeasonStatsService(provider, seasonRepo, nil)
	season.now = fixedNow
	advanced := NewAdvancedStatsService(provider, gameRepo, &stubPlayerRepo{}, newStubAdvancedRepo(), seasonRepo, nil)

	svc := NewWrapUpService(games, standings, season, advanced, nil)
	svc.now = fixedNow

	return &wrapUpFixture{svc: svc, season: seasonRepo, standings: standingsRepo}
}

func TestDailyWrapUp_RunsEveryStage(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		standings: []nbastats.Row{{
			"TEAM_ID": int64(1610612747),
			"WINS":    30,
			"LOSSES":  11,
			"WinPCT":  0.732,
		}},
		playerDash: map[nbastats.Measure][]nbastats.Row{
			nbastats.MeasureBase: {{
				"PLAYER_ID": int64(2544),
				"TEAM_ID":   int64(1610612747),
				"GP":        41,
				"PTS":       25.4,
			}},
			nbastats.MeasureAdvanced: {{
				"PLAYER_ID": int64(2544),
				"TEAM_ID":   int64(1610612747),
				"PIE":       0.184,
			}},
		},
		teamDash: map[nbastats.Measure][]nbastats.Row{
			nbastats.MeasureAdvanced: {{
				"TEAM_ID":    int64(1610612747),
				"OFF_RATING": 117.2,
			}},
		},
	}

	f := newWrapUpForTest(provider)

	result, err := f.svc.DailyWrapUp(context.Background(), WrapUpOptions{})
	require.NoError(t, err)

	// One standings row, one base row, one player plus one team advanced row.
	assert.Equal(t, 4, result.Synced)
	assert.Zero(t, result.Failed)
	require.Len(t, f.standings.rows, 1)
	assert.Equal(t, "2025-26", f.standings.rows[0].Season)
	require.Len(t, f.season.playerStats, 1)
	require.Len(t, f.season.playerAdvanced, 1)
	require.Len(t, f.season.teamAdvanced, 1)
}

func TestDailyWrapUp_OptionsDisableStages(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		standings: []nbastats.Row{{"TEAM_ID": int64(1610612747), "WINS": 30}},
		playerDash: map[nbastats.Measure][]nbastats.Row{
			nbastats.MeasureBase: {{"PLAYER_ID": int64(2544)}},
		},
	}

	f := newWrapUpForTest(provider)

	off := false
	result, err := f.svc.DailyWrapUp(context.Background(), WrapUpOptions{
		SyncStandings:   &off,
		SyncPlayerStats: &off,
		SyncAdvanced:    &off,
	})
	require.NoError(t, err)

	assert.Zero(t, result.Synced)
	assert.Empty(t, f.standings.rows)
	assert.Empty(t, f.season.playerStats)
}

func TestDailyWrapUp_StageFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	// No teams stored: standings sync fails, the rest still runs.
	provider := &stubProvider{
		standings: []nbastats.Row{{"TEAM_ID": int64(1610612747), "WINS": 30}},
		playerDash: map[nbastats.Measure][]nbastats.Row{
			nbastats.MeasureBase: {{"PLAYER_ID": int64(2544)}},
		},
	}

	gameRepo := newStubGameRepo()
	seasonRepo := &stubSeasonRepo{}

	games := NewGameSyncService(provider, gameRepo, &stubTeamRepo{ids: []int64{1}}, nil, time.UTC, nil)
	games.now = fixedNow
	standings := NewStandingsSyncService(provider, &stubTeamRepo{}, &stubStandingsRepo{}, nil)
	standings.now = fixedNow
	season := NewSeasonStatsService(provider, seasonRepo, nil)
	season.now = fixedNow

	svc := NewWrapUpService(games, standings, season, nil, nil)
	svc.now = fixedNow

	result, err := svc.DailyWrapUp(context.Background(), WrapUpOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	require.Len(t, seasonRepo.playerStats, 1)
}
