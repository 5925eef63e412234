package notifier

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter implements the token bucket algorithm for rate limiting.
// It keeps webhook endpoints from being overwhelmed when a large batch of
// campsites opens up at once.
type RateLimiter struct {
	rate    rate.Limit
	burst   int
	limiter *rate.Limiter
}

// NewRateLimiter creates a RateLimiter allowing up to burst requests
// immediately, refilled at requestsPerSecond.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	r := rate.Limit(requestsPerSecond)
	return &RateLimiter{
		rate:    r,
		burst:   burst,
		limiter: rate.NewLimiter(r, burst),
	}
}

// Allow blocks until a token is available or the context is canceled.
// It should be called before making a rate-limited request.
func (r *RateLimiter) Allow(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
