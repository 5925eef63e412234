package search

import (
	"context"
	"math/rand"
	"time"
)

// Pacer spaces sequential requests against the same upstream. Providers
// actively block bursty clients, so every facility/month fetch after the
// first waits behind the pacer.
type Pacer interface {
	Pace(ctx context.Context) error
}

// JitterPacer sleeps a uniformly random duration between Min and Max.
type JitterPacer struct {
	Min time.Duration
	Max time.Duration
}

// DefaultPacer returns the pacing used against reservation upstreams:
// a randomized 1.01-1.51s delay between sequential requests.
func DefaultPacer() JitterPacer {
	return JitterPacer{Min: 1010 * time.Millisecond, Max: 1510 * time.Millisecond}
}

// Pace sleeps for the jittered delay or returns early when the context is
// cancelled.
func (p JitterPacer) Pace(ctx context.Context) error {
	delay := p.Min
	if p.Max > p.Min {
		// #nosec G404 -- pacing jitter does not need crypto randomness.
		delay += time.Duration(rand.Int63n(int64(p.Max - p.Min)))
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NopPacer disables pacing. Used in tests and against local fakes.
type NopPacer struct{}

// Pace returns immediately.
func (NopPacer) Pace(ctx context.Context) error { return ctx.Err() }
