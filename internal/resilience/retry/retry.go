// Package retry provides retry logic with exponential backoff and jitter.
// Unlike attempt-count policies, retries here are bounded by a total elapsed
// budget: a slow upstream gets more attempts spaced further apart rather than
// more rapid-fire attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Policy holds the configuration for retry logic.
type Policy struct {
	// MaxElapsed is the total time budget for the operation including all
	// retries and backoff sleeps. Once exceeded, the last error is returned.
	MaxElapsed time.Duration

	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries
	MaxDelay time.Duration

	// Multiplier is the multiplier for exponential backoff
	Multiplier float64

	// JitterFraction is the fraction of delay to add as random jitter (0.0 to 1.0)
	JitterFraction float64
}

// DefaultPolicy returns a general-purpose retry policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxElapsed:     2 * time.Minute,
		InitialDelay:   1 * time.Second,
		MaxDelay:       30 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.5,
	}
}

// AvailabilityPolicy returns the policy used for month-availability requests.
// Availability endpoints rate-limit aggressively, so the budget is generous
// and the delay ceiling is high: keep trying for a long time, slowly.
func AvailabilityPolicy() Policy {
	return Policy{
		MaxElapsed:     100 * time.Minute,
		InitialDelay:   3 * time.Second,
		MaxDelay:       30 * time.Minute,
		Multiplier:     2.0,
		JitterFraction: 0.5,
	}
}

// MetadataPolicy returns the policy used for facility and recreation-area
// metadata requests. These are cheap and failures surface quickly.
func MetadataPolicy() Policy {
	return Policy{
		MaxElapsed:     15 * time.Second,
		InitialDelay:   2 * time.Second,
		MaxDelay:       10 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.5,
	}
}

// Do executes the given function, retrying retryable failures with
// exponential backoff until the elapsed budget is spent. It returns nil on
// success, the error unchanged for non-retryable failures, and a wrapped
// budget-exceeded error once the policy's MaxElapsed has passed.
func Do(ctx context.Context, p Policy, fn func() error) error {
	start := time.Now()
	delay := p.InitialDelay
	attempt := 0

	for {
		attempt++
		lastErr := fn()

		if lastErr == nil {
			if attempt > 1 {
				slog.Info("operation succeeded after retry",
					slog.Int("attempt", attempt),
					slog.Duration("elapsed", time.Since(start)))
			}
			return nil
		}

		if !IsRetryable(lastErr) {
			slog.Warn("non-retryable error, aborting",
				slog.Int("attempt", attempt),
				slog.Any("error", lastErr))
			return lastErr
		}

		sleep := addJitter(delay, p.JitterFraction)
		if time.Since(start)+sleep > p.MaxElapsed {
			return fmt.Errorf("retry budget (%s) exceeded after %d attempts: %w",
				p.MaxElapsed, attempt, lastErr)
		}

		slog.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("delay", sleep),
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", lastErr))

		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}

		delay = time.Duration(float64(delay) * p.Multiplier)
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
}

// IsRetryable determines if an error is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Network errors (timeout)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Syscall errors
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	// HTTP status codes
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		// 5xx server errors are retryable
		if httpErr.StatusCode >= 500 && httpErr.StatusCode < 600 {
			return true
		}
		// 429 Too Many Requests is retryable
		if httpErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		// 408 Request Timeout is retryable
		if httpErr.StatusCode == http.StatusRequestTimeout {
			return true
		}
		// Remaining 4xx errors (including 404 on a specific resource) are
		// surfaced immediately, never retried.
		return false
	}

	// Plain connection-level errors without status information
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// addJitter adds random jitter to a duration to prevent thundering herd.
func addJitter(duration time.Duration, jitterFraction float64) time.Duration {
	if jitterFraction <= 0 {
		return duration
	}
	if jitterFraction > 1.0 {
		jitterFraction = 1.0
	}
	// #nosec G404 -- math/rand is fine for backoff jitter.
	jitter := time.Duration(rand.Float64() * float64(duration) * jitterFraction)
	return duration + jitter
}
