package nbastats

import "testing"

func TestRow_AliasFallback(t *testing.T) {
	t.Parallel()

	row := Row{"TeamAbbreviation": "LAL", "Wins": float64(41)}

	if got := row.Str("team_code", ""); got != "LAL" {
		t.Fatalf("expected alias fallback to TeamAbbreviation, got %q", got)
	}
	if got := row.Int("wins", 0); got != 41 {
		t.Fatalf("expected wins=41 via alias, got %d", got)
	}
}

func TestRow_FirstPresentAliasWins(t *testing.T) {
	t.Parallel()

	row := Row{"WINS": float64(50), "Wins": float64(1)}
	if got := row.Int("wins", 0); got != 50 {
		t.Fatalf("expected first alias candidate to win, got %d", got)
	}
}

func TestRow_NumericCoercionIsTotal(t *testing.T) {
	t.Parallel()

	row := Row{"PTS": "not-a-number", "REB": nil}

	if got := row.Int("points", 7); got != 7 {
		t.Fatalf("expected unparsable value to fall back to default, got %d", got)
	}
	if got := row.Int("rebounds", 3); got != 3 {
		t.Fatalf("expected nil value to fall back to default, got %d", got)
	}
	if got := row.Float("win_pct", 0.5); got != 0.5 {
		t.Fatalf("expected missing field default, got %v", got)
	}
}

func TestRow_StringCoercion(t *testing.T) {
	t.Parallel()

	row := Row{"GAME_ID": "0022500123", "PERIOD": float64(4), "NUM": "  23 "}

	if got := row.Str("game_id", ""); got != "0022500123" {
		t.Fatalf("unexpected game id %q", got)
	}
	if got := row.Str("period", ""); got != "4" {
		t.Fatalf("expected numeric-to-string coercion, got %q", got)
	}
	if got := row.Str("jersey_number", ""); got != "23" {
		t.Fatalf("expected trimmed jersey number, got %q", got)
	}
}

func TestRow_IntPtrDistinguishesMissing(t *testing.T) {
	t.Parallel()

	row := Row{"PTS": float64(0)}

	if got := row.IntPtr("points"); got == nil || *got != 0 {
		t.Fatalf("expected present zero score, got %v", got)
	}
	if got := row.IntPtr("rebounds"); got != nil {
		t.Fatalf("expected nil for missing field, got %v", *got)
	}
}

func TestEnvelopeRows_MergesHeadersPositionally(t *testing.T) {
	t.Parallel()

	envelope := statsEnvelope{
		ResultSets: []resultSet{
			{
				Name:    "GameHeader",
				Headers: []string{"GAME_ID", "GAME_STATUS_ID"},
				RowSet: [][]any{
					{"0022500123", float64(2)},
					{"0022500124", float64(1)},
				},
			},
		},
	}

	rows := envelope.rows("gameheader")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if got := rows[0].Int("game_status_id", 0); got != 2 {
		t.Fatalf("expected status 2, got %d", got)
	}
	if rows := envelope.rows("LineScore"); rows != nil {
		t.Fatalf("expected nil for absent result set, got %d rows", len(rows))
	}
}
