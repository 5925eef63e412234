package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campwatch/internal/infra/notifier"
)

func TestNewSlackChannel_Validation(t *testing.T) {
	_, err := NewSlackChannel(notifier.SlackConfig{})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = NewSlackChannel(notifier.SlackConfig{WebhookURL: "http://insecure.example.com"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	ch, err := NewSlackChannel(notifier.SlackConfig{WebhookURL: "https://hooks.slack.com/services/x"})
	require.NoError(t, err)
	assert.Equal(t, "slack", ch.Name())
	assert.False(t, ch.Silent())
}

func TestNewDiscordChannel_Validation(t *testing.T) {
	_, err := NewDiscordChannel(notifier.DiscordConfig{})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	ch, err := NewDiscordChannel(notifier.DiscordConfig{WebhookURL: "https://discord.com/api/webhooks/x"})
	require.NoError(t, err)
	assert.Equal(t, "discord", ch.Name())
}

func TestNewWebhookChannel_Validation(t *testing.T) {
	_, err := NewWebhookChannel(notifier.WebhookConfig{})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	ch, err := NewWebhookChannel(notifier.WebhookConfig{URL: "https://example.com/hook"})
	require.NoError(t, err)
	assert.Equal(t, "webhook", ch.Name())
}

func TestBuildChannels(t *testing.T) {
	cfg := ChannelConfig{
		Slack: notifier.SlackConfig{WebhookURL: "https://hooks.slack.com/services/x"},
	}

	channels, err := BuildChannels([]string{"Silent", "slack"}, cfg)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.True(t, channels[0].Silent())
	assert.Equal(t, "slack", channels[1].Name())
}

func TestBuildChannels_UnknownName(t *testing.T) {
	_, err := BuildChannels([]string{"pager"}, ChannelConfig{})
	assert.ErrorIs(t, err, ErrUnknownChannel)
}

func TestBuildChannels_MissingCredentials(t *testing.T) {
	_, err := BuildChannels([]string{"discord"}, ChannelConfig{})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestSilentChannel(t *testing.T) {
	ch := NewSilentChannel()
	assert.Equal(t, "silent", ch.Name())
	assert.True(t, ch.Silent())
}
