package taskqueue

import "testing"

func TestDecodePayload_SyncDateGames(t *testing.T) {
	t.Parallel()

	payload, err := DecodePayload(TypeSyncDateGames, []byte(`{"date":"2026-02-11","with_stats":true}`))
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	p, ok := payload.(SyncDateGamesPayload)
	if !ok {
		t.Fatalf("expected SyncDateGamesPayload, got %T", payload)
	}
	if p.Date != "2026-02-11" {
		t.Fatalf("unexpected date %q", p.Date)
	}
	if p.WithStats == nil || !*p.WithStats {
		t.Fatal("expected with_stats true")
	}
}

func TestDecodePayload_RejectsBadDate(t *testing.T) {
	t.Parallel()

	if _, err := DecodePayload(TypeSyncDateGames, []byte(`{"date":"02/11/2026"}`)); err == nil {
		t.Fatal("expected validation error for malformed date")
	}
}

func TestDecodePayload_UnknownType(t *testing.T) {
	t.Parallel()

	if _, err := DecodePayload("SYNC_EVERYTHING", []byte(`{}`)); err == nil {
		t.Fatal("expected error for unknown task type")
	}
}

func TestDecodePayload_EmptyBodyAllowedForBareTypes(t *testing.T) {
	t.Parallel()

	payload, err := DecodePayload(TypeCheckSchedule, nil)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if _, ok := payload.(CheckSchedulePayload); !ok {
		t.Fatalf("expected CheckSchedulePayload, got %T", payload)
	}
}

func TestDecodePayload_LiveGameRequiresSomeID(t *testing.T) {
	t.Parallel()

	if _, err := DecodePayload(TypeSyncLiveGame, []byte(`{}`)); err == nil {
		t.Fatal("expected validation error when neither game_id nor game_ids present")
	}

	payload, err := DecodePayload(TypeSyncLiveGame, []byte(`{"game_ids":["0022500123","0022500124"]}`))
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	p := payload.(SyncLiveGamePayload)
	if got := p.TargetGameIDs(); len(got) != 2 {
		t.Fatalf("expected 2 game ids, got %d", len(got))
	}
}

func TestTruncateError(t *testing.T) {
	t.Parallel()

	long := make([]byte, 2*MaxErrorLength)
	for i := range long {
		long[i] = 'x'
	}
	if got := TruncateError(string(long)); len(got) != MaxErrorLength {
		t.Fatalf("expected %d chars, got %d", MaxErrorLength, len(got))
	}
	if got := TruncateError("short"); got != "short" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
