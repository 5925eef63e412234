package notify

import (
	"fmt"
	"sort"
	"strings"

	"campwatch/internal/infra/notifier"
)

// Known channel names.
const (
	ChannelSilent  = "silent"
	ChannelSlack   = "slack"
	ChannelDiscord = "discord"
	ChannelWebhook = "webhook"
)

// ChannelConfig carries the per-backend settings the channel constructors
// need.
type ChannelConfig struct {
	Slack   notifier.SlackConfig
	Discord notifier.DiscordConfig
	Webhook notifier.WebhookConfig
}

// BuildChannels resolves channel names into constructed channels. Names are
// case-insensitive; unknown names and missing credentials are reported with
// the full list of supported channels.
func BuildChannels(names []string, cfg ChannelConfig) ([]Channel, error) {
	channels := make([]Channel, 0, len(names))
	for _, name := range names {
		var (
			ch  Channel
			err error
		)
		switch strings.ToLower(strings.TrimSpace(name)) {
		case ChannelSilent, "":
			ch = NewSilentChannel()
		case ChannelSlack:
			ch, err = NewSlackChannel(cfg.Slack)
		case ChannelDiscord:
			ch, err = NewDiscordChannel(cfg.Discord)
		case ChannelWebhook:
			ch, err = NewWebhookChannel(cfg.Webhook)
		default:
			err = fmt.Errorf("%w: %q (supported: %s)",
				ErrUnknownChannel, name, strings.Join(SupportedChannels(), ", "))
		}
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// SupportedChannels lists the channel names BuildChannels accepts, sorted.
func SupportedChannels() []string {
	names := []string{ChannelSilent, ChannelSlack, ChannelDiscord, ChannelWebhook}
	sort.Strings(names)
	return names
}
