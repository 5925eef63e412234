package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"campwatch/internal/domain/entity"
	"campwatch/internal/observability/metrics"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const requestIDKey contextKey = "request_id"

// Common webhook error types shared by the Slack, Discord, and generic
// webhook notifiers.

// RateLimitError represents a 429 rate limit error from a webhook service.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError represents a 4xx client error from a webhook service.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError represents a 5xx server error from a webhook service.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// is429Error checks if the error is a rate limit error and extracts retry_after.
func is429Error(err error) (*RateLimitError, bool) {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr, true
	}
	return nil, false
}

// isRetryableError checks if the error is worth retrying (5xx server errors,
// network errors). Client errors (4xx) are not retryable; rate limits (429)
// are handled separately through is429Error.
func isRetryableError(err error) bool {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return true
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return false
	}
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return false
	}
	return true
}

// extractRetryAfter pulls a retry delay out of a 429 response, preferring
// the Retry-After header and falling back to 5 seconds.
func extractRetryAfter(resp *http.Response) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 5 * time.Second
}

// truncate shortens text to maxLength characters, appending suffix when
// anything was cut.
func truncate(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}
	at := maxLength - len(suffix)
	if at < 0 {
		at = 0
	}
	return text[:at] + suffix
}

// webhookClient is the POST-classify-retry loop every webhook-backed
// notifier shares. Payload construction stays with the individual
// notifiers; everything from rate limiting to backoff lives here.
type webhookClient struct {
	name        string
	url         string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	headers     map[string]string
}

const (
	webhookMaxAttempts = 2
	webhookBaseDelay   = 5 * time.Second
)

// post sends one JSON payload and classifies the response by status code.
func (c *webhookClient) post(ctx context.Context, payload any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Message:    fmt.Sprintf("%s rate limit exceeded", c.name),
			RetryAfter: extractRetryAfter(resp),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s client error: %s", c.name, string(body)),
		}
	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s server error: %s", c.name, string(body)),
		}
	}
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
}

// send applies rate limiting and delivers the payload with retry.
//
// Retry strategy:
//   - Max attempts: 2
//   - 429 errors: sleep for retry_after, then retry
//   - Server errors (5xx), network errors: linear backoff (5s, 10s)
//   - Client errors (4xx): no retry, fail immediately
//
// All attempts are logged with a request_id for tracing.
func (c *webhookClient) send(ctx context.Context, payload any) error {
	requestID := uuid.New().String()
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	if err := c.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= webhookMaxAttempts; attempt++ {
		err := c.post(ctx, payload)
		if err == nil {
			slog.Info("notification delivered",
				slog.String("request_id", requestID),
				slog.String("channel", c.name),
				slog.Int("attempt", attempt))
			metrics.RecordNotification(c.name, true)
			return nil
		}
		lastErr = err

		if rateLimitErr, ok := is429Error(err); ok {
			slog.Warn("notification rate limit hit, backing off",
				slog.String("request_id", requestID),
				slog.String("channel", c.name),
				slog.Duration("retry_after", rateLimitErr.RetryAfter),
				slog.Int("attempt", attempt))
			select {
			case <-time.After(rateLimitErr.RetryAfter):
				continue
			case <-ctx.Done():
				return fmt.Errorf("context canceled during rate limit backoff: %w", ctx.Err())
			}
		}

		if !isRetryableError(err) {
			slog.Error("notification failed with non-retryable error",
				slog.String("request_id", requestID),
				slog.String("channel", c.name),
				slog.Any("error", err))
			metrics.RecordNotification(c.name, false)
			return err
		}

		if attempt < webhookMaxAttempts {
			delay := webhookBaseDelay * time.Duration(attempt)
			slog.Warn("notification request failed, retrying",
				slog.String("request_id", requestID),
				slog.String("channel", c.name),
				slog.Any("error", err),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return fmt.Errorf("context canceled during retry backoff: %w", ctx.Err())
			}
		}
	}

	slog.Error("notification failed after all retries",
		slog.String("request_id", requestID),
		slog.String("channel", c.name),
		slog.Any("error", lastErr),
		slog.Int("max_attempts", webhookMaxAttempts))
	metrics.RecordNotification(c.name, false)
	return fmt.Errorf("%s notification failed after %d attempts: %w", c.name, webhookMaxAttempts, lastErr)
}

// campsiteSummary renders one campsite as the multi-line text every channel
// shares: date range, site, campground, and booking link.
func campsiteSummary(site entity.AvailableCampsite) string {
	return fmt.Sprintf("%s to %s\n%s (%s)\n%s, %s\n%s",
		entity.Midnight(site.BookingDate).Format(entity.DateLayout),
		entity.Midnight(site.BookingEndDate).Format(entity.DateLayout),
		site.SiteName, site.CampsiteType,
		site.FacilityName, site.RecreationArea,
		site.BookingURL)
}
