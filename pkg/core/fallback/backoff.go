// Package fallback tries an ordered list of providers for a capability,
// retrying each with exponential backoff before moving to the next.
package fallback

import (
	"context"
	"math/rand"
	"time"
)

// Policy defines retry behavior per provider. The defaults model Alpha
// Vantage's hard free-tier limit of 5 requests/minute.
type Policy struct {
	// MaxAttempts is how many times a single provider is tried before the
	// resolver moves on (default: 3).
	MaxAttempts int

	// BaseDelay is the backoff unit; the wait before attempt k (k > 0) is
	// BaseDelay * Multiplier^k (default: 12s).
	BaseDelay time.Duration

	// Multiplier is applied exponentially per attempt (default: 2).
	Multiplier float64

	// Jitter, when positive, adds a random duration in [0, Jitter) to each
	// wait so retries from concurrent requests spread out.
	Jitter time.Duration
}

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 12 * time.Second
	DefaultMultiplier  = 2.0
)

// DefaultPolicy returns the rate-limit-friendly defaults.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Multiplier:  DefaultMultiplier,
	}
}

// Delay computes the wait before the given attempt (attempt 0 never waits).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	multiplier := 1.0
	for i := 0; i < attempt; i++ {
		multiplier *= p.Multiplier
	}
	d := time.Duration(float64(p.BaseDelay) * multiplier)
	if p.Jitter > 0 {
		d += time.Duration(rand.Int63n(int64(p.Jitter)))
	}
	return d
}

// SleepFunc waits for d or until ctx is done. Injected so tests run without
// wall-clock waits.
type SleepFunc func(ctx context.Context, d time.Duration) error

// ContextSleep is the production SleepFunc.
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
