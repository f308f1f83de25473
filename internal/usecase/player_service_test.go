package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/hoopsync/nba-data-sync/external/nbastats"
)

func rosterRow(playerID int64, name string) nbastats.Row {
	return nbastats.Row{
		"PLAYER_ID": float64(playerID),
		"PLAYER":    name,
		"NUM":       "23",
		"POSITION":  "F",
	}
}

func TestSyncPlayers_WalksEveryRoster(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		rosters: map[int64][]nbastats.Row{
			1: {rosterRow(10, "LeBron James")},
			2: {rosterRow(11, "Jayson Tatum"), rosterRow(12, "Derrick White")},
		},
	}
	playerRepo := &stubPlayerRepo{}
	svc := NewPlayerSyncService(provider, &stubTeamRepo{ids: []int64{1, 2}}, playerRepo, nil)
	svc.now = fixedNow

	result, err := svc.SyncPlayers(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Synced != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
	if p := playerRepo.stored[10]; p.TeamID == nil || *p.TeamID != 1 {
		t.Fatalf("roster context lost: %+v", p)
	}
	// The run must end with a read of what actually landed.
	if playerRepo.listIDsCalls != 1 {
		t.Fatalf("expected one verification read, got %d", playerRepo.listIDsCalls)
	}
}

func TestSyncPlayers_MissingRosterIsSkipNotError(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		rosters: map[int64][]nbastats.Row{
			1: {rosterRow(10, "LeBron James")},
		},
	}
	svc := NewPlayerSyncService(provider, &stubTeamRepo{ids: []int64{1, 2}}, &stubPlayerRepo{}, nil)
	svc.now = fixedNow

	result, err := svc.SyncPlayers(context.Background())
	if err != nil {
		t.Fatalf("one dead roster must not fail the run: %v", err)
	}
	if result.Synced != 1 || result.Skipped["roster_unavailable"] != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestSyncPlayers_NoTeamsYet(t *testing.T) {
	t.Parallel()

	svc := NewPlayerSyncService(&stubProvider{}, &stubTeamRepo{}, &stubPlayerRepo{}, nil)
	svc.now = fixedNow

	if _, err := svc.SyncPlayers(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency error before the first team sync, got %v", err)
	}
}

func TestSyncPlayers_RepeatRunsConverge(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		rosters: map[int64][]nbastats.Row{
			1: {rosterRow(10, "LeBron James"), rosterRow(13, "Austin Reaves")},
		},
	}
	playerRepo := &stubPlayerRepo{}
	svc := NewPlayerSyncService(provider, &stubTeamRepo{ids: []int64{1}}, playerRepo, nil)
	svc.now = fixedNow

	first, err := svc.SyncPlayers(context.Background())
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	second, err := svc.SyncPlayers(context.Background())
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if first.Synced != second.Synced {
		t.Fatalf("repeat run drifted: first %+v second %+v", first, second)
	}
	if len(playerRepo.stored) != 2 {
		t.Fatalf("store must hold one row per player, got %d", len(playerRepo.stored))
	}
}
