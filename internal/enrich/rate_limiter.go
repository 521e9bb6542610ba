package enrich

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces advisory requests: a token bucket plus a random per-request delay.
type RateLimiter struct {
	limiter  *rate.Limiter
	minDelay time.Duration
	maxDelay time.Duration
	randN    func(n int64) int64
	sleep    func(context.Context, time.Duration) error
}

// NewRateLimiter creates a new rate limiter
// rps: requests per second, zero or negative disables the token bucket
// minDelay, maxDelay: bounds of the uniform jitter added before every request
func NewRateLimiter(rps int, minDelay, maxDelay time.Duration) *RateLimiter {
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = rps
	}
	if minDelay < 0 {
		minDelay = 0
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}

	return &RateLimiter{
		limiter:  rate.NewLimiter(limit, burst),
		minDelay: minDelay,
		maxDelay: maxDelay,
		randN:    rand.Int64N,
		sleep:    sleepWithContext,
	}
}

// Wait blocks until the next request may be sent
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.sleep(ctx, r.jitter())
}

func (r *RateLimiter) jitter() time.Duration {
	spread := r.maxDelay - r.minDelay
	if spread <= 0 {
		return r.minDelay
	}
	return r.minDelay + time.Duration(r.randN(int64(spread)+1))
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
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
