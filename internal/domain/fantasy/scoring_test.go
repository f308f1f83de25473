package fantasy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScore_DefaultCoefficients(t *testing.T) {
	t.Parallel()

	cfg := DefaultScoring()
	line := StatLine{Points: 30, Rebounds: 10, Assists: 5, Steals: 2, Blocks: 1, Turnovers: 3}

	if got := cfg.Score(line); got != 55.5 {
		t.Fatalf("expected 55.5, got %v", got)
	}
}

func TestScore_FlooredAtMinimum(t *testing.T) {
	t.Parallel()

	cfg := DefaultScoring()
	line := StatLine{Turnovers: 8}

	if got := cfg.Score(line); got != 0 {
		t.Fatalf("expected floor at 0, got %v", got)
	}
}

func TestScore_LegacyOneDecimal(t *testing.T) {
	t.Parallel()

	cfg := DefaultScoring()
	cfg.LegacyOneDecimal = true
	line := StatLine{Points: 11, Rebounds: 3, Assists: 1, Turnovers: 1}

	// 11 + 3.6 + 1.5 - 1 = 15.1
	if got := cfg.Score(line); got != 15.1 {
		t.Fatalf("expected 15.1, got %v", got)
	}
}

func TestLoadScoring_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadScoring(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("load scoring: %v", err)
	}
	if cfg.Coefficients.Rebounds != 1.2 {
		t.Fatalf("expected default rebound coefficient, got %v", cfg.Coefficients.Rebounds)
	}
}

func TestLoadScoring_PartialOverride(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scoring.json")
	content := `{"coefficients":{"pts":1,"reb":1.2,"ast":1.5,"stl":3,"blk":3,"tov":-2},"decimals":1}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write scoring file: %v", err)
	}

	cfg, err := LoadScoring(path)
	if err != nil {
		t.Fatalf("load scoring: %v", err)
	}
	if cfg.Coefficients.Turnovers != -2 {
		t.Fatalf("expected tov coefficient -2, got %v", cfg.Coefficients.Turnovers)
	}
	if cfg.Decimals != 1 {
		t.Fatalf("expected 1 decimal, got %d", cfg.Decimals)
	}
}
