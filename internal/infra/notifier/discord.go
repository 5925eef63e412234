package notifier

import (
	"context"
	"net/http"
	"time"

	"campwatch/internal/domain/entity"
)

// DiscordConfig contains configuration for Discord webhook notifications.
type DiscordConfig struct {
	// WebhookURL is the Discord webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Discord API calls
	Timeout time.Duration
}

// DiscordNotifier delivers campsite notifications to Discord via webhook
// embeds.
type DiscordNotifier struct {
	client *webhookClient
}

// NewDiscordNotifier creates a DiscordNotifier with the specified
// configuration. The rate limiter is set to 0.5 requests/second with burst
// of 3 (Discord Webhook limit: 30 requests per minute).
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{
		client: &webhookClient{
			name:        "discord",
			url:         config.WebhookURL,
			httpClient:  &http.Client{Timeout: config.Timeout},
			rateLimiter: NewRateLimiter(0.5, 3),
		},
	}
}

// DiscordWebhookPayload represents the JSON payload sent to Discord webhook.
type DiscordWebhookPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []DiscordEmbed `json:"embeds,omitempty"`
}

// DiscordEmbed represents a Discord embed message.
type DiscordEmbed struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	URL         string             `json:"url"`
	Color       int                `json:"color"`
	Footer      DiscordEmbedFooter `json:"footer"`
	Timestamp   string             `json:"timestamp"`
}

// DiscordEmbedFooter represents the footer of a Discord embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	// Discord allows at most 10 embeds per webhook message.
	maxEmbedsPerMessage = 10

	// Forest green, to stand out from the default grey embeds.
	discordEmbedColor = 0x228B22

	maxEmbedDescriptionLength = 4096
	discordTruncationSuffix   = "..."
)

func campsiteEmbed(site entity.AvailableCampsite, now time.Time) DiscordEmbed {
	return DiscordEmbed{
		Title: site.SiteName + " - " + site.FacilityName,
		Description: truncate(campsiteSummary(site),
			maxEmbedDescriptionLength, discordTruncationSuffix),
		URL:       site.BookingURL,
		Color:     discordEmbedColor,
		Footer:    DiscordEmbedFooter{Text: "campwatch"},
		Timestamp: now.Format(time.RFC3339),
	}
}

// NotifyCampsites sends one embed per campsite, split into multiple webhook
// messages when the batch exceeds Discord's per-message embed limit.
func (d *DiscordNotifier) NotifyCampsites(ctx context.Context, campsites []entity.AvailableCampsite) error {
	now := time.Now()
	for start := 0; start < len(campsites); start += maxEmbedsPerMessage {
		end := start + maxEmbedsPerMessage
		if end > len(campsites) {
			end = len(campsites)
		}
		embeds := make([]DiscordEmbed, 0, end-start)
		for _, site := range campsites[start:end] {
			embeds = append(embeds, campsiteEmbed(site, now))
		}
		if err := d.client.send(ctx, DiscordWebhookPayload{Embeds: embeds}); err != nil {
			return err
		}
	}
	return nil
}

// NotifyMessage sends a plain content message.
func (d *DiscordNotifier) NotifyMessage(ctx context.Context, message string) error {
	return d.client.send(ctx, DiscordWebhookPayload{Content: message})
}
