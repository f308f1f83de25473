package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

var errTimeout = errors.New("read timeout")

func newTestRetryer(cfg RetryConfig, classify Classifier, rotator Rotator) (*Retryer, *[]time.Duration) {
	r := NewRetryer(cfg, classify, rotator, logging.NewNop())
	slept := &[]time.Duration{}
	r.sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	r.randFloat = func() float64 { return 0 }
	return r, slept
}

func TestRetryer_ExhaustionReturnsAbsence(t *testing.T) {
	t.Parallel()

	classify := func(error) ErrorClass { return ClassTimeout }
	r, _ := newTestRetryer(RetryConfig{MaxAttempts: 3}, classify, nil)

	calls := 0
	ok := r.Do(context.Background(), "scoreboard", func(context.Context) error {
		calls++
		return errTimeout
	})

	if ok {
		t.Fatal("expected absence after exhaustion")
	}
	if calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls)
	}
}

func TestRetryer_SuccessStopsRetrying(t *testing.T) {
	t.Parallel()

	classify := func(error) ErrorClass { return ClassTimeout }
	r, _ := newTestRetryer(RetryConfig{MaxAttempts: 5}, classify, nil)

	calls := 0
	ok := r.Do(context.Background(), "boxscore", func(context.Context) error {
		calls++
		if calls < 2 {
			return errTimeout
		}
		return nil
	})

	if !ok {
		t.Fatal("expected success")
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestRetryer_FatalAbortsImmediately(t *testing.T) {
	t.Parallel()

	classify := func(error) ErrorClass { return ClassFatal }
	r, _ := newTestRetryer(RetryConfig{MaxAttempts: 5}, classify, nil)

	calls := 0
	ok := r.Do(context.Background(), "roster", func(context.Context) error {
		calls++
		return errors.New("nil map dereference")
	})

	if ok {
		t.Fatal("expected failure")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt for a fatal error, got %d", calls)
	}
}

func TestRetryer_BackoffDoublesAndCaps(t *testing.T) {
	t.Parallel()

	classify := func(error) ErrorClass { return ClassEmptyResponse }
	cfg := RetryConfig{
		MaxAttempts: 6,
		BaseDelay:   4 * time.Second,
		MaxDelay:    30 * time.Second,
	}
	r, slept := newTestRetryer(cfg, classify, nil)

	r.Do(context.Background(), "standings", func(context.Context) error {
		return errors.New("empty body")
	})

	want := []time.Duration{4 * time.Second, 8 * time.Second, 16 * time.Second, 30 * time.Second, 30 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %d", len(want), len(*slept))
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Fatalf("sleep %d: expected %s, got %s", i, d, (*slept)[i])
		}
	}
}

func TestRetryer_RateLimitAddsPenalty(t *testing.T) {
	t.Parallel()

	classify := func(error) ErrorClass { return ClassRateLimited }
	cfg := RetryConfig{
		MaxAttempts:      2,
		BaseDelay:        2 * time.Second,
		MaxDelay:         30 * time.Second,
		RateLimitPenalty: 30 * time.Second,
	}
	r, slept := newTestRetryer(cfg, classify, nil)

	r.Do(context.Background(), "scoreboard", func(context.Context) error {
		return errors.New("429 too many requests")
	})

	if len(*slept) != 1 {
		t.Fatalf("expected 1 sleep, got %d", len(*slept))
	}
	if got := (*slept)[0]; got != 32*time.Second {
		t.Fatalf("expected base+penalty of 32s, got %s", got)
	}
}

func TestRetryer_TimeoutWithoutRotatorIsRateLimited(t *testing.T) {
	t.Parallel()

	classify := func(error) ErrorClass { return ClassTimeout }
	cfg := RetryConfig{
		MaxAttempts:      2,
		BaseDelay:        2 * time.Second,
		MaxDelay:         30 * time.Second,
		RateLimitPenalty: 30 * time.Second,
	}
	r, slept := newTestRetryer(cfg, classify, nil)

	r.Do(context.Background(), "scoreboard", func(context.Context) error { return errTimeout })

	if len(*slept) != 1 {
		t.Fatalf("expected 1 sleep, got %d", len(*slept))
	}
	if got := (*slept)[0]; got != 32*time.Second {
		t.Fatalf("expected rate-limit penalty without rotator, got %s", got)
	}
}

func TestRetryer_RotatorShortCircuitsBackoff(t *testing.T) {
	t.Parallel()

	classify := func(error) ErrorClass { return ClassConnection }
	cfg := RetryConfig{
		MaxAttempts:      3,
		BaseDelay:        2 * time.Second,
		MaxDelay:         30 * time.Second,
		RotationDelayMin: 3 * time.Second,
		RotationDelayMax: 8 * time.Second,
	}
	rot := &countingRotator{}
	r, slept := newTestRetryer(cfg, classify, rot)

	r.Do(context.Background(), "boxscore", func(context.Context) error {
		return errors.New("tunnel connection failed")
	})

	if rot.calls != 2 {
		t.Fatalf("expected 2 rotations, got %d", rot.calls)
	}
	for i, d := range *slept {
		if d != 3*time.Second {
			t.Fatalf("sleep %d: expected rotation delay floor of 3s, got %s", i, d)
		}
	}
}

func TestRetryer_CancelledContextStops(t *testing.T) {
	t.Parallel()

	classify := func(error) ErrorClass { return ClassTimeout }
	r, _ := newTestRetryer(RetryConfig{MaxAttempts: 5}, classify, nil)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	ok := r.Do(ctx, "scoreboard", func(context.Context) error {
		calls++
		cancel()
		return errTimeout
	})

	if ok {
		t.Fatal("expected failure on cancelled context")
	}
	if calls != 1 {
		t.Fatalf("expected 1 attempt, got %d", calls)
	}
}

type countingRotator struct {
	calls int
}

func (r *countingRotator) Rotate() { r.calls++ }
