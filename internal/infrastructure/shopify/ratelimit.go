package shopify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RateLimiter spaces successive API calls by a minimum interval so the
// adapter stays inside Shopify's REST call budget.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
	logger   zerolog.Logger
}

// NewRateLimiter creates a rate limiter with the given minimum interval
func NewRateLimiter(interval time.Duration, logger zerolog.Logger) *RateLimiter {
	return &RateLimiter{interval: interval, logger: logger}
}

// Wait blocks until the next call slot opens or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	rl.mu.Lock()
	now := time.Now()
	wait := rl.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	rl.next = now.Add(wait + rl.interval)
	rl.mu.Unlock()

	if wait == 0 {
		return nil
	}

	rl.logger.Debug().Dur("wait", wait).Msg("Rate limiter delaying upstream call")
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
