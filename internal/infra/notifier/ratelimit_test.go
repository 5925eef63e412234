package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsBurst(t *testing.T) {
	limiter := NewRateLimiter(1.0, 3)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Allow(context.Background()))
	}
	// The whole burst should go through without waiting on the refill rate.
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRateLimiter_BlocksBeyondBurst(t *testing.T) {
	limiter := NewRateLimiter(10.0, 1)

	require.NoError(t, limiter.Allow(context.Background()))
	start := time.Now()
	require.NoError(t, limiter.Allow(context.Background()))
	// The second token only becomes available after ~100ms at 10 req/s.
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestRateLimiter_ContextCancellation(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1)
	require.NoError(t, limiter.Allow(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Allow(ctx)
	assert.Error(t, err)
}
