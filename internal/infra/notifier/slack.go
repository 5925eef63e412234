package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"campwatch/internal/domain/entity"
)

// SlackConfig contains configuration for Slack webhook notifications.
type SlackConfig struct {
	// WebhookURL is the Slack Incoming Webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Slack API calls
	Timeout time.Duration
}

// SlackNotifier delivers campsite notifications to Slack via Incoming
// Webhook using Block Kit formatting.
type SlackNotifier struct {
	client *webhookClient
}

// NewSlackNotifier creates a SlackNotifier with the specified configuration.
// The rate limiter is set to 1 request/second with burst of 1
// (Slack Webhook limit: 1 message per second).
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	return &SlackNotifier{
		client: &webhookClient{
			name:        "slack",
			url:         config.WebhookURL,
			httpClient:  &http.Client{Timeout: config.Timeout},
			rateLimiter: NewRateLimiter(1.0, 1),
		},
	}
}

// SlackWebhookPayload represents the JSON payload sent to Slack webhook using Block Kit.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`   // Fallback text (required)
	Blocks []SlackBlock `json:"blocks"` // Rich formatting blocks
}

// SlackBlock represents a Slack Block Kit block.
type SlackBlock struct {
	Type     string            `json:"type"`               // "section", "context", "divider"
	Text     *SlackTextObject  `json:"text,omitempty"`     // Text content (for section)
	Elements []SlackTextObject `json:"elements,omitempty"` // Elements (for context)
}

// SlackTextObject represents a text object in Slack Block Kit.
type SlackTextObject struct {
	Type string `json:"type"` // "mrkdwn" or "plain_text"
	Text string `json:"text"` // Actual text content
}

const (
	// Slack Block Kit limits
	maxSectionTextLength = 3000
	maxFallbackLength    = 150

	slackTruncationSuffix = "..."
)

// buildCampsitePayload renders a batch of campsites as one section block per
// site, separated by dividers, with a context footer carrying the send time.
func buildCampsitePayload(campsites []entity.AvailableCampsite, now time.Time) SlackWebhookPayload {
	fallback := fmt.Sprintf("%d new campsites available", len(campsites))
	if len(campsites) == 1 {
		fallback = fmt.Sprintf("New campsite available: %s", campsites[0].SiteName)
	}
	fallback = truncate(fallback, maxFallbackLength, slackTruncationSuffix)

	blocks := make([]SlackBlock, 0, 2*len(campsites)+1)
	for i, site := range campsites {
		if i > 0 {
			blocks = append(blocks, SlackBlock{Type: "divider"})
		}
		text := fmt.Sprintf("*<%s|%s - %s>*\n%s to %s\n%s, %s",
			site.BookingURL, site.SiteName, site.FacilityName,
			entity.Midnight(site.BookingDate).Format(entity.DateLayout),
			entity.Midnight(site.BookingEndDate).Format(entity.DateLayout),
			site.CampsiteType, site.RecreationArea)
		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackTextObject{
				Type: "mrkdwn",
				Text: truncate(text, maxSectionTextLength, slackTruncationSuffix),
			},
		})
	}
	blocks = append(blocks, SlackBlock{
		Type: "context",
		Elements: []SlackTextObject{{
			Type: "mrkdwn",
			Text: fmt.Sprintf("campwatch • %s", now.Format(time.RFC3339)),
		}},
	})

	return SlackWebhookPayload{Text: fallback, Blocks: blocks}
}

// NotifyCampsites sends a Block Kit message describing the campsite batch.
func (s *SlackNotifier) NotifyCampsites(ctx context.Context, campsites []entity.AvailableCampsite) error {
	if len(campsites) == 0 {
		return nil
	}
	return s.client.send(ctx, buildCampsitePayload(campsites, time.Now()))
}

// NotifyMessage sends a plain text message.
func (s *SlackNotifier) NotifyMessage(ctx context.Context, message string) error {
	payload := SlackWebhookPayload{
		Text: truncate(message, maxFallbackLength, slackTruncationSuffix),
		Blocks: []SlackBlock{{
			Type: "section",
			Text: &SlackTextObject{
				Type: "mrkdwn",
				Text: truncate(message, maxSectionTextLength, slackTruncationSuffix),
			},
		}},
	}
	return s.client.send(ctx, payload)
}
