package fantasy

import (
	"fmt"
	"math"
	"os"

	sonic "github.com/bytedance/sonic"
)

// Coefficients weight the counting stats of one box-score line. Turnovers
// carry a negative weight.
type Coefficients struct {
	Points    float64 `json:"pts"`
	Rebounds  float64 `json:"reb"`
	Assists   float64 `json:"ast"`
	Steals    float64 `json:"stl"`
	Blocks    float64 `json:"blk"`
	Turnovers float64 `json:"tov"`
}

// ScoringConfig is the externally tunable fantasy-score rule set.
type ScoringConfig struct {
	Coefficients Coefficients `json:"coefficients"`
	MinScore     float64      `json:"min_score"`
	Decimals     int          `json:"decimals"`
	// LegacyOneDecimal forces 1-decimal rounding for rows that must compare
	// equal against historical data.
	LegacyOneDecimal bool `json:"legacy_one_decimal"`
}

func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		Coefficients: Coefficients{
			Points:    1.0,
			Rebounds:  1.2,
			Assists:   1.5,
			Steals:    3.0,
			Blocks:    3.0,
			Turnovers: -1.0,
		},
		MinScore: 0,
		Decimals: 2,
	}
}

// LoadScoring reads a rules file, falling back to defaults for a missing
// path. Zero-valued coefficients in the file are kept as written; partial
// files override only the keys they name because decoding starts from the
// default set.
func LoadScoring(path string) (ScoringConfig, error) {
	cfg := DefaultScoring()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read scoring config: %w", err)
	}
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return DefaultScoring(), fmt.Errorf("parse scoring config: %w", err)
	}

	return cfg, nil
}

// StatLine is the input to Score; callers coerce provider values to ints
// before building one.
type StatLine struct {
	Points    int
	Rebounds  int
	Assists   int
	Steals    int
	Blocks    int
	Turnovers int
}

// Score computes the weighted linear combination, floors at MinScore, and
// rounds to the configured decimal count.
func (c ScoringConfig) Score(line StatLine) float64 {
	score := float64(line.Points)*c.Coefficients.Points +
		float64(line.Rebounds)*c.Coefficients.Rebounds +
		float64(line.Assists)*c.Coefficients.Assists +
		float64(line.Steals)*c.Coefficients.Steals +
		float64(line.Blocks)*c.Coefficients.Blocks +
		float64(line.Turnovers)*c.Coefficients.Turnovers

	if score < c.MinScore {
		score = c.MinScore
	}

	decimals := c.Decimals
	if c.LegacyOneDecimal {
		decimals = 1
	}
	if decimals < 0 {
		decimals = 0
	}
	factor := math.Pow(10, float64(decimals))
	return math.Round(score*factor) / factor
}
