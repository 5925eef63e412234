package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campwatch/internal/domain/entity"
)

func TestDiscordNotifier_NotifyCampsites(t *testing.T) {
	var payloads []DiscordWebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var p DiscordWebhookPayload
		require.NoError(t, json.Unmarshal(body, &p))
		payloads = append(payloads, p)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewDiscordNotifier(DiscordConfig{WebhookURL: server.URL, Timeout: 5 * time.Second})

	err := n.NotifyCampsites(context.Background(), []entity.AvailableCampsite{testCampsite("c1")})

	require.NoError(t, err)
	require.Len(t, payloads, 1)
	require.Len(t, payloads[0].Embeds, 1)
	embed := payloads[0].Embeds[0]
	assert.Equal(t, "Site c1 - Kirk Creek", embed.Title)
	assert.Equal(t, "https://example.com/camping/campsites/c1", embed.URL)
	assert.Contains(t, embed.Description, "2024-07-04 to 2024-07-05")
	assert.Equal(t, discordEmbedColor, embed.Color)
}

func TestDiscordNotifier_SplitsLargeBatches(t *testing.T) {
	var embedCounts []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var p DiscordWebhookPayload
		require.NoError(t, json.Unmarshal(body, &p))
		embedCounts = append(embedCounts, len(p.Embeds))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewDiscordNotifier(DiscordConfig{WebhookURL: server.URL, Timeout: 5 * time.Second})
	// Raise the limiter so the chunked sends don't serialize the test.
	n.client.rateLimiter = NewRateLimiter(1000, 1000)

	batch := make([]entity.AvailableCampsite, 0, 14)
	for i := 0; i < 14; i++ {
		batch = append(batch, testCampsite(string(rune('a'+i))))
	}
	err := n.NotifyCampsites(context.Background(), batch)

	require.NoError(t, err)
	assert.Equal(t, []int{10, 4}, embedCounts)
}

func TestDiscordNotifier_NotifyMessage(t *testing.T) {
	var captured DiscordWebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewDiscordNotifier(DiscordConfig{WebhookURL: server.URL, Timeout: 5 * time.Second})

	require.NoError(t, n.NotifyMessage(context.Background(), "watcher exiting"))
	assert.Equal(t, "watcher exiting", captured.Content)
	assert.Empty(t, captured.Embeds)
}
