package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/hoopsync/nba-data-sync/external/nbastats"
	"github.com/hoopsync/nba-data-sync/internal/domain/fantasy"
	"github.com/hoopsync/nba-data-sync/internal/domain/game"
)

func finalBoxScore(gameID string) *nbastats.BoxScore {
	home, away := 112, 108
	return &nbastats.BoxScore{
		GameID:     gameID,
		StatusCode: 3,
		HomeTeamID: 1,
		AwayTeamID: 2,
		HomeScore:  &home,
		AwayScore:  &away,
		Players: []nbastats.PlayerLine{
			{PlayerID: 10, TeamID: 1, Minutes: "PT35M12.00S", Points: 28, Rebounds: 7, Assists: 6},
			{PlayerID: 11, TeamID: 2, Minutes: "PT31M40.00S", Points: 22, Rebounds: 11},
		},
	}
}

func TestSyncGameStats_WritesLines(t *testing.T) {
	t.Parallel()

	gameRepo := newStubGameRepo()
	gameRepo.put(game.Game{ID: "0022500123", Status: game.StatusFinal})
	statsRepo := newStubStatsRepo()
	provider := &stubProvider{
		boxScores: map[string]*nbastats.BoxScore{"0022500123": finalBoxScore("0022500123")},
	}

	svc := NewGameStatsService(provider, gameRepo, &stubPlayerRepo{ids: []int64{10, 11}}, statsRepo, fantasy.DefaultScoring(), nil)

	result, err := svc.SyncGameStats(context.Background(), "0022500123")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Synced != 2 {
		t.Fatalf("expected 2 lines, got %+v", result)
	}
	if len(statsRepo.deletes) != 1 {
		t.Fatal("previous generation must be cleared before insert")
	}
	rows := statsRepo.rows["0022500123"]
	if len(rows) != 2 || rows[0].Minutes != "35:12" || rows[0].FantasyScore == 0 {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestSyncGameStats_SkipsUnknownPlayer(t *testing.T) {
	t.Parallel()

	gameRepo := newStubGameRepo()
	gameRepo.put(game.Game{ID: "0022500123", Status: game.StatusFinal})
	statsRepo := newStubStatsRepo()
	provider := &stubProvider{
		boxScores: map[string]*nbastats.BoxScore{"0022500123": finalBoxScore("0022500123")},
	}

	svc := NewGameStatsService(provider, gameRepo, &stubPlayerRepo{ids: []int64{10}}, statsRepo, fantasy.DefaultScoring(), nil)

	result, err := svc.SyncGameStats(context.Background(), "0022500123")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Synced != 1 || result.Skipped["unknown_player"] != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestSyncGameStats_SkipsLineFromForeignTeam(t *testing.T) {
	t.Parallel()

	gameRepo := newStubGameRepo()
	gameRepo.put(game.Game{ID: "0022500123", Status: game.StatusFinal, HomeTeamID: 1, AwayTeamID: 2})
	statsRepo := newStubStatsRepo()
	box := finalBoxScore("0022500123")
	// A provider glitch can splice a line from another game into the feed.
	box.Players = append(box.Players, nbastats.PlayerLine{
		PlayerID: 12, TeamID: 3, Minutes: "PT20M00.00S", Points: 9,
	})
	provider := &stubProvider{
		boxScores: map[string]*nbastats.BoxScore{"0022500123": box},
	}

	svc := NewGameStatsService(provider, gameRepo, &stubPlayerRepo{ids: []int64{10, 11, 12}}, statsRepo, fantasy.DefaultScoring(), nil)

	result, err := svc.SyncGameStats(context.Background(), "0022500123")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Synced != 2 || result.Skipped["wrong_team"] != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	for _, row := range statsRepo.rows["0022500123"] {
		if row.PlayerID == 12 {
			t.Fatal("foreign team line must not be stored")
		}
	}
}

func TestSyncGameStats_BulkFailureFallsBackPerRow(t *testing.T) {
	t.Parallel()

	gameRepo := newStubGameRepo()
	gameRepo.put(game.Game{ID: "0022500123", Status: game.StatusFinal})
	statsRepo := newStubStatsRepo()
	statsRepo.bulkErr = errors.New("deadlock detected")
	provider := &stubProvider{
		boxScores: map[string]*nbastats.BoxScore{"0022500123": finalBoxScore("0022500123")},
	}

	svc := NewGameStatsService(provider, gameRepo, &stubPlayerRepo{ids: []int64{10, 11}}, statsRepo, fantasy.DefaultScoring(), nil)

	result, err := svc.SyncGameStats(context.Background(), "0022500123")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Synced != 2 || result.Failed != 0 {
		t.Fatalf("per-row fallback must recover the batch, got %+v", result)
	}
}

func TestSyncGameStats_RepeatRunsConverge(t *testing.T) {
	t.Parallel()

	gameRepo := newStubGameRepo()
	gameRepo.put(game.Game{ID: "0022500123", Status: game.StatusFinal})
	statsRepo := newStubStatsRepo()
	provider := &stubProvider{
		boxScores: map[string]*nbastats.BoxScore{"0022500123": finalBoxScore("0022500123")},
	}

	svc := NewGameStatsService(provider, gameRepo, &stubPlayerRepo{ids: []int64{10, 11}}, statsRepo, fantasy.DefaultScoring(), nil)

	first, err := svc.SyncGameStats(context.Background(), "0022500123")
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	second, err := svc.SyncGameStats(context.Background(), "0022500123")
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if first.Synced != second.Synced {
		t.Fatalf("repeat run drifted: first %+v second %+v", first, second)
	}
	// Replace-then-insert must leave exactly one generation of rows.
	rows := statsRepo.rows["0022500123"]
	if len(rows) != 2 {
		t.Fatalf("expected one generation of 2 rows, got %d", len(rows))
	}
	if rows[0].Points != 28 || rows[1].Points != 22 {
		t.Fatalf("second pass altered the rows: %+v", rows)
	}
}

func TestSyncGameStats_EmptyBoxScoreIsSkip(t *testing.T) {
	t.Parallel()

	gameRepo := newStubGameRepo()
	gameRepo.put(game.Game{ID: "0022500123", Status: game.StatusFinal})
	provider := &stubProvider{
		boxScores: map[string]*nbastats.BoxScore{"0022500123": {GameID: "0022500123", StatusCode: 2}},
	}

	svc := NewGameStatsService(provider, gameRepo, &stubPlayerRepo{}, newStubStatsRepo(), fantasy.DefaultScoring(), nil)

	result, err := svc.SyncGameStats(context.Background(), "0022500123")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Skipped["empty_box_score"] != 1 {
		t.Fatalf("expected empty_box_score skip, got %+v", result.Skipped)
	}
}

func TestSyncGameStats_LiveGamePrefersLiveFeed(t *testing.T) {
	t.Parallel()

	gameRepo := newStubGameRepo()
	gameRepo.put(game.Game{ID: "0022500123", Status: game.StatusLive})
	statsRepo := newStubStatsRepo()

	liveBox := finalBoxScore("0022500123")
	liveBox.StatusCode = 2
	provider := &stubProvider{
		liveBoxScores: map[string]*nbastats.BoxScore{"0022500123": liveBox},
	}

	svc := NewGameStatsService(provider, gameRepo, &stubPlayerRepo{ids: []int64{10, 11}}, statsRepo, fantasy.DefaultScoring(), nil)

	result, err := svc.SyncGameStats(context.Background(), "0022500123")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Synced != 2 {
		t.Fatalf("live feed lines must be written, got %+v", result)
	}
	if gameRepo.games["0022500123"].Status != game.StatusLive {
		t.Fatal("game row must be refreshed from the live feed")
	}
}
