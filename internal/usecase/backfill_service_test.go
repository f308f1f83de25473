package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hoopsync/nba-data-sync/external/nbastats"
	"github.com/hoopsync/nba-data-sync/internal/domain/fantasy"
	"github.com/hoopsync/nba-data-sync/internal/domain/game"
)

func newBackfillForTest(t *testing.T, provider *stubProvider, gameRepo *stubGameRepo) (*BackfillService, string) {
	t.Helper()

	playerRepo := &stubPlayerRepo{ids: []int64{10, 11}}
	teamRepo := &stubTeamRepo{ids: []int64{1, 2}}
	statsRepo := newStubStatsRepo()

	stats := NewGameStatsService(provider, gameRepo, playerRepo, statsRepo, fantasy.DefaultScoring(), nil)
	games := NewGameSyncService(provider, gameRepo, teamRepo, stats, time.UTC, nil)
	games.now = fixedNow
	advanced := NewAdvancedStatsService(provider, gameRepo, playerRepo, newStubAdvancedRepo(), &stubSeasonRepo{}, nil)

	path := filepath.Join(t.TempDir(), "checkpoint.json")
	svc := NewBackfillService(gameRepo, games, stats, advanced, path, nil)
	svc.sleep = func(time.Duration) {}
	svc.randInt = func(int) int { return 0 }
	return svc, path
}

func TestBackfill_ProcessesRangeAndRemovesCheckpoint(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		scoreboard: map[string][]nbastats.GameSummary{
			"2026-01-10": {},
			"2026-01-11": {},
			"2026-01-12": {},
		},
	}
	svc, path := newBackfillForTest(t, provider, newStubGameRepo())

	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	result, err := svc.Backfill(context.Background(), start, end, false)
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if result.Failed != 0 {
		t.Fatalf("unexpected failures %+v", result)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("clean run must remove the checkpoint file")
	}
}

func TestBackfill_ResumeSkipsCompletedDates(t *testing.T) {
	t.Parallel()

	// Only the last date is available; the first two come from a previous
	// interrupted run's checkpoint.
	provider := &stubProvider{
		scoreboard: map[string][]nbastats.GameSummary{
			"2026-01-12": {},
		},
	}
	gameRepo := newStubGameRepo()
	svc, path := newBackfillForTest(t, provider, gameRepo)

	seed := newBackfillCheckpoint("2026-01-10", "2026-01-12")
	seed.DatesDone["2026-01-10"] = true
	seed.DatesDone["2026-01-11"] = true
	svc.saveCheckpoint(context.Background(), seed)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("seed checkpoint missing: %v", err)
	}

	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	result, err := svc.Backfill(context.Background(), start, end, false)
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if result.Skipped["date_already_done"] != 2 {
		t.Fatalf("completed dates must be skipped, got %+v", result.Skipped)
	}
	if result.Failed != 0 {
		t.Fatalf("the remaining date must sync cleanly, got %+v", result)
	}
}

func TestBackfill_DifferentRangeStartsFresh(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		scoreboard: map[string][]nbastats.GameSummary{
			"2026-01-12": {},
		},
	}
	svc, _ := newBackfillForTest(t, provider, newStubGameRepo())

	seed := newBackfillCheckpoint("2025-12-01", "2025-12-31")
	seed.DatesDone["2025-12-01"] = true
	svc.saveCheckpoint(context.Background(), seed)

	day := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	result, err := svc.Backfill(context.Background(), day, day, false)
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if result.Skipped["date_already_done"] != 0 {
		t.Fatal("a checkpoint for another range must be ignored")
	}
}

func TestBackfill_StatsPhaseFillsGaps(t *testing.T) {
	t.Parallel()

	home, away := 112, 108
	gameRepo := newStubGameRepo()
	gap := game.Game{ID: "0022500123", Status: game.StatusFinal, DateTime: time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)}
	gameRepo.put(gap)
	gameRepo.withoutStats = []game.Game{gap}

	provider := &stubProvider{
		scoreboard: map[string][]nbastats.GameSummary{
			"2026-01-10": {},
		},
		boxScores: map[string]*nbastats.BoxScore{
			"0022500123": {
				GameID:     "0022500123",
				StatusCode: 3,
				HomeScore:  &home,
				AwayScore:  &away,
				Players: []nbastats.PlayerLine{
					{PlayerID: 10, TeamID: 1, Minutes: "PT30M00.00S", Points: 20},
				},
			},
		},
	}
	svc, _ := newBackfillForTest(t, provider, gameRepo)

	day := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	result, err := svc.Backfill(context.Background(), day, day, true)
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if result.Failed != 0 {
		t.Fatalf("gap game must sync, got %+v", result)
	}
	if len(gameRepo.statusUpdates) == 0 {
		t.Fatal("the gap game's row must be refreshed from its box score")
	}
}

func TestBackfill_RejectsInvertedRange(t *testing.T) {
	t.Parallel()

	svc, _ := newBackfillForTest(t, &stubProvider{}, newStubGameRepo())

	start := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Backfill(context.Background(), start, end, false); err == nil {
		t.Fatal("expected error for end before start")
	}
}
