package resilience

import (
	"context"
	"math/rand"
	"time"

	"github.com/hoopsync/nba-data-sync/internal/platform/logging"
)

// ErrorClass buckets a provider failure for retry decisions.
type ErrorClass int

const (
	// ClassFatal aborts the retry loop immediately. Unclassified errors are
	// logic errors, not weather; burning the attempt budget on them only
	// delays the operator finding out.
	ClassFatal ErrorClass = iota
	ClassTimeout
	ClassConnection
	ClassRateLimited
	// ClassEmptyResponse is the provider quirk where a 200 arrives with no
	// usable body. Retried with plain backoff.
	ClassEmptyResponse
)

func (c ErrorClass) String() string {
	switch c {
	case ClassTimeout:
		return "timeout"
	case ClassConnection:
		return "connection"
	case ClassRateLimited:
		return "rate_limited"
	case ClassEmptyResponse:
		return "empty_response"
	default:
		return "fatal"
	}
}

// Classifier maps an attempt error onto an ErrorClass.
type Classifier func(error) ErrorClass

// Rotator swaps the egress identity used by subsequent attempts.
type Rotator interface {
	Rotate()
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	JitterMax   time.Duration
	// RateLimitPenalty is added on top of the base backoff when an attempt
	// was classified rate-limited; an equal-sized uniform jitter is added to
	// the penalty itself.
	RateLimitPenalty time.Duration
	RotationDelayMin time.Duration
	RotationDelayMax time.Duration
	// PostSuccessPause bounds the courtesy sleep after a successful call so
	// back-to-back syncs stay inside the provider's per-minute quota.
	PostSuccessPauseMin time.Duration
	PostSuccessPauseMax time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:         3,
		BaseDelay:           2 * time.Second,
		MaxDelay:            30 * time.Second,
		JitterMax:           3 * time.Second,
		RateLimitPenalty:    30 * time.Second,
		RotationDelayMin:    3 * time.Second,
		RotationDelayMax:    8 * time.Second,
		PostSuccessPauseMin: 500 * time.Millisecond,
		PostSuccessPauseMax: time.Second,
	}
}

func NormalizeRetryConfig(cfg RetryConfig) RetryConfig {
	defaults := DefaultRetryConfig()
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaults.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = defaults.MaxDelay
	}
	if cfg.JitterMax < 0 {
		cfg.JitterMax = defaults.JitterMax
	}
	if cfg.RateLimitPenalty < 0 {
		cfg.RateLimitPenalty = defaults.RateLimitPenalty
	}
	if cfg.RotationDelayMin <= 0 {
		cfg.RotationDelayMin = defaults.RotationDelayMin
	}
	if cfg.RotationDelayMax < cfg.RotationDelayMin {
		cfg.RotationDelayMax = cfg.RotationDelayMin
	}
	if cfg.PostSuccessPauseMin < 0 {
		cfg.PostSuccessPauseMin = defaults.PostSuccessPauseMin
	}
	if cfg.PostSuccessPauseMax < cfg.PostSuccessPauseMin {
		cfg.PostSuccessPauseMax = cfg.PostSuccessPauseMin
	}
	return cfg
}

// Retryer is the single retry policy shared by every provider call site.
// Exhaustion is an absence signal, not an error: Do reports false and the
// caller skips that unit of work until the next scheduled run.
type Retryer struct {
	cfg      RetryConfig
	classify Classifier
	rotator  Rotator
	logger   *logging.Logger

	onRetry   func(name string, class ErrorClass)
	randFloat func() float64
	sleep     func(context.Context, time.Duration) error
}

func NewRetryer(cfg RetryConfig, classify Classifier, rotator Rotator, logger *logging.Logger) *Retryer {
	if classify == nil {
		classify = func(error) ErrorClass { return ClassFatal }
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Retryer{
		cfg:       NormalizeRetryConfig(cfg),
		classify:  classify,
		rotator:   rotator,
		logger:    logger,
		randFloat: rand.Float64,
		sleep:     sleepContext,
	}
}

// OnRetry registers a callback fired once per retried attempt, after
// classification. Used for metrics; must not block.
func (r *Retryer) OnRetry(fn func(name string, class ErrorClass)) {
	r.onRetry = fn
}

// Do runs attempt up to MaxAttempts times and reports whether one attempt
// succeeded. A fatal classification or a cancelled context also reports
// false; Do never panics or returns an error to the caller.
func (r *Retryer) Do(ctx context.Context, name string, attempt func(context.Context) error) bool {
	for i := 1; i <= r.cfg.MaxAttempts; i++ {
		err := attempt(ctx)
		if err == nil {
			if i > 1 {
				r.logger.InfoContext(ctx, "call recovered", "call", name, "attempt", i)
			}
			_ = r.sleep(ctx, r.postSuccessPause())
			return true
		}

		if ctx.Err() != nil {
			r.logger.WarnContext(ctx, "call cancelled", "call", name, "attempt", i, "error", err)
			return false
		}

		class := r.classify(err)
		if class == ClassFatal {
			r.logger.ErrorContext(ctx, "call failed with non-retryable error", "call", name, "attempt", i, "error", err)
			return false
		}
		if r.onRetry != nil {
			r.onRetry(name, class)
		}

		if i == r.cfg.MaxAttempts {
			r.logger.WarnContext(ctx, "call attempts exhausted", "call", name, "attempts", i, "class", class.String(), "error", err)
			return false
		}

		rotating := r.rotator != nil && (class == ClassTimeout || class == ClassConnection)
		delay := r.delayFor(i, class, rotating)
		r.logger.WarnContext(ctx, "call failed, retrying",
			"call", name,
			"attempt", i,
			"class", class.String(),
			"rotating", rotating,
			"delay", delay,
			"error", err,
		)
		if rotating {
			r.rotator.Rotate()
		}
		if err := r.sleep(ctx, delay); err != nil {
			return false
		}
	}
	return false
}

func (r *Retryer) delayFor(attempt int, class ErrorClass, rotating bool) time.Duration {
	if rotating {
		spread := r.cfg.RotationDelayMax - r.cfg.RotationDelayMin
		return r.cfg.RotationDelayMin + time.Duration(r.randFloat()*float64(spread))
	}

	delay := r.cfg.BaseDelay << (attempt - 1)
	if delay > r.cfg.MaxDelay || delay <= 0 {
		delay = r.cfg.MaxDelay
	}

	// A timeout with no rotation path available is treated as rate limiting
	// in disguise; the provider quota is the usual culprit.
	rateLimited := class == ClassRateLimited || (class == ClassTimeout && r.rotator == nil)
	if rateLimited {
		delay += r.cfg.RateLimitPenalty + time.Duration(r.randFloat()*float64(r.cfg.RateLimitPenalty))
	}

	delay += time.Duration(r.randFloat() * float64(r.cfg.JitterMax))
	return delay
}

func (r *Retryer) postSuccessPause() time.Duration {
	spread := r.cfg.PostSuccessPauseMax - r.cfg.PostSuccessPauseMin
	return r.cfg.PostSuccessPauseMin + time.Duration(r.randFloat()*float64(spread))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
