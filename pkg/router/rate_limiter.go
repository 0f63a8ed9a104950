package router

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter paces pool quotes.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter allowing quotesPerSecond quotes with an equal burst.
func NewRateLimiter(quotesPerSecond int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(quotesPerSecond), quotesPerSecond),
	}
}

// Wait blocks until the next quote is allowed
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}

// GetRate returns the current rate limit
func (rl *RateLimiter) GetRate() int {
	return int(rl.limiter.Limit())
}
