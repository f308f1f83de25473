package usecase

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hoopsync/nba-data-sync/external/nbastats"
	"github.com/hoopsync/nba-data-sync/internal/metrics"
)

func standingRows() []nbastats.Row {
	return []nbastats.Row{
		{
			"TEAM_ID":           float64(1610612747),
			"TEAM_NAME":         "Lakers",
			"TEAM_CITY":         "Los Angeles",
			"TEAM_ABBREVIATION": "LAL",
			"CONFERENCE":        "West",
		},
		{
			"TEAM_ID":           float64(1610612738),
			"TEAM_NAME":         "Celtics",
			"TEAM_CITY":         "Boston",
			"TEAM_ABBREVIATION": "BOS",
			"CONFERENCE":        "East",
		},
	}
}

func newTeamSyncForTest(provider *stubProvider, teamRepo *stubTeamRepo) *TeamSyncService {
	svc := NewTeamSyncService(provider, teamRepo, nil)
	svc.now = fixedNow
	return svc
}

func TestSyncTeams_UpsertsAndReadsBack(t *testing.T) {
	t.Parallel()

	teamRepo := &stubTeamRepo{}
	svc := newTeamSyncForTest(&stubProvider{standings: standingRows()}, teamRepo)

	result, err := svc.SyncTeams(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Synced != 2 || result.Failed != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if teamRepo.stored[1610612747].Code != "LAL" || teamRepo.stored[1610612738].Code != "BOS" {
		t.Fatalf("unexpected writes %+v", teamRepo.stored)
	}
	// Every run ends with a read of what actually landed.
	if teamRepo.listIDsCalls != 1 {
		t.Fatalf("expected one verification read, got %d", teamRepo.listIDsCalls)
	}
}

func TestSyncTeams_SkipsMalformedRow(t *testing.T) {
	t.Parallel()

	rows := append(standingRows(), nbastats.Row{"TEAM_ID": float64(1610612741)})
	teamRepo := &stubTeamRepo{}
	svc := newTeamSyncForTest(&stubProvider{standings: rows}, teamRepo)

	result, err := svc.SyncTeams(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Synced != 2 || result.Skipped["malformed_row"] != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestSyncTeams_RepeatRunsConverge(t *testing.T) {
	t.Parallel()

	teamRepo := &stubTeamRepo{}
	svc := newTeamSyncForTest(&stubProvider{standings: standingRows()}, teamRepo)

	first, err := svc.SyncTeams(context.Background())
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	second, err := svc.SyncTeams(context.Background())
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if first.Synced != second.Synced {
		t.Fatalf("repeat run drifted: first %+v second %+v", first, second)
	}
	if len(teamRepo.stored) != 2 {
		t.Fatalf("store must hold one row per team, got %d", len(teamRepo.stored))
	}
	if got := teamRepo.stored[1610612747]; got.Name != "Lakers" || got.City != "Los Angeles" {
		t.Fatalf("second pass altered the row: %+v", got)
	}
}

func TestSyncTeams_CountsSyncedRows(t *testing.T) {
	counter := metrics.RowsSynced.WithLabelValues("teams")
	before := testutil.ToFloat64(counter)

	svc := newTeamSyncForTest(&stubProvider{standings: standingRows()}, &stubTeamRepo{})
	if _, err := svc.SyncTeams(context.Background()); err != nil {
		t.Fatalf("sync: %v", err)
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Fatalf("expected counter to advance by 2, got %v", got)
	}
}
