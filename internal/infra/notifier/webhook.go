package notifier

import (
	"context"
	"net/http"
	"time"

	"campwatch/internal/domain/entity"
)

// WebhookConfig contains configuration for generic webhook notifications.
type WebhookConfig struct {
	// URL is the endpoint to POST notification payloads to.
	URL string

	// Headers are extra request headers, typically authentication.
	Headers map[string]string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration
}

// WebhookNotifier POSTs raw JSON payloads to an arbitrary endpoint, for
// integration with home automation and custom receivers.
type WebhookNotifier struct {
	client *webhookClient
}

// NewWebhookNotifier creates a WebhookNotifier with the specified
// configuration. The rate limiter is a generous 2 requests/second since the
// receiver is caller-operated.
func NewWebhookNotifier(config WebhookConfig) *WebhookNotifier {
	return &WebhookNotifier{
		client: &webhookClient{
			name:        "webhook",
			url:         config.URL,
			httpClient:  &http.Client{Timeout: config.Timeout},
			rateLimiter: NewRateLimiter(2.0, 5),
			headers:     config.Headers,
		},
	}
}

// WebhookPayload is the JSON body posted to generic webhook receivers.
type WebhookPayload struct {
	Message   string                     `json:"message,omitempty"`
	Campsites []entity.AvailableCampsite `json:"campsites,omitempty"`
}

// NotifyCampsites posts the campsite batch as structured JSON.
func (w *WebhookNotifier) NotifyCampsites(ctx context.Context, campsites []entity.AvailableCampsite) error {
	if len(campsites) == 0 {
		return nil
	}
	return w.client.send(ctx, WebhookPayload{Campsites: campsites})
}

// NotifyMessage posts a message-only payload.
func (w *WebhookNotifier) NotifyMessage(ctx context.Context, message string) error {
	return w.client.send(ctx, WebhookPayload{Message: message})
}
