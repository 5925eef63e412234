// Package notify provides the use case for dispatching campsite
// notifications across multiple channels. It wraps the delivery backends
// from the infrastructure layer behind a Channel abstraction, orders silent
// channels ahead of human-facing ones, and isolates per-channel failures so
// one broken webhook cannot block the rest.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campwatch/internal/domain/entity"
	"campwatch/internal/infra/notifier"
)

// Channel represents one notification delivery channel.
//
// Thread safety: all methods must be safe for concurrent use.
// Context handling: implementations must respect cancellation and timeout.
type Channel interface {
	// Name returns the channel identifier (lowercase, alphanumeric), used
	// for logging and metrics.
	Name() string

	// Silent reports whether the channel only records notifications
	// without reaching a human. Silent channels are dispatched first.
	Silent() bool

	// SendCampsites delivers a batch of newly available campsites.
	SendCampsites(ctx context.Context, campsites []entity.AvailableCampsite) error

	// SendMessage delivers a plain text message.
	SendMessage(ctx context.Context, message string) error
}

// backedChannel adapts a notifier.Notifier to the Channel interface.
type backedChannel struct {
	name     string
	silent   bool
	delegate notifier.Notifier
}

func (c *backedChannel) Name() string { return c.name }
func (c *backedChannel) Silent() bool { return c.silent }

func (c *backedChannel) SendCampsites(ctx context.Context, campsites []entity.AvailableCampsite) error {
	return c.delegate.NotifyCampsites(ctx, campsites)
}

func (c *backedChannel) SendMessage(ctx context.Context, message string) error {
	return c.delegate.NotifyMessage(ctx, message)
}

// NewSilentChannel returns the log-only channel that is always part of the
// dispatch order.
func NewSilentChannel() Channel {
	return &backedChannel{name: "silent", silent: true, delegate: notifier.NewSilentNotifier()}
}

// NewSlackChannel builds the Slack channel. The webhook URL is validated
// eagerly so a misconfigured watcher fails at startup, not hours later when
// the first campsite opens up.
func NewSlackChannel(config notifier.SlackConfig) (Channel, error) {
	if config.WebhookURL == "" {
		return nil, fmt.Errorf("%w: slack webhook URL is not set", ErrMissingCredentials)
	}
	if !strings.HasPrefix(config.WebhookURL, "https://") {
		return nil, fmt.Errorf("%w: slack webhook URL must be https", ErrMissingCredentials)
	}
	if config.Timeout == 0 {
		config.Timeout = defaultChannelTimeout
	}
	return &backedChannel{name: "slack", delegate: notifier.NewSlackNotifier(config)}, nil
}

// NewDiscordChannel builds the Discord channel with eager credential
// validation.
func NewDiscordChannel(config notifier.DiscordConfig) (Channel, error) {
	if config.WebhookURL == "" {
		return nil, fmt.Errorf("%w: discord webhook URL is not set", ErrMissingCredentials)
	}
	if !strings.HasPrefix(config.WebhookURL, "https://") {
		return nil, fmt.Errorf("%w: discord webhook URL must be https", ErrMissingCredentials)
	}
	if config.Timeout == 0 {
		config.Timeout = defaultChannelTimeout
	}
	return &backedChannel{name: "discord", delegate: notifier.NewDiscordNotifier(config)}, nil
}

// NewWebhookChannel builds the generic webhook channel.
func NewWebhookChannel(config notifier.WebhookConfig) (Channel, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("%w: webhook URL is not set", ErrMissingCredentials)
	}
	if config.Timeout == 0 {
		config.Timeout = defaultChannelTimeout
	}
	return &backedChannel{name: "webhook", delegate: notifier.NewWebhookNotifier(config)}, nil
}

const defaultChannelTimeout = 30 * time.Second
