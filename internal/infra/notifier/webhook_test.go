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

func TestWebhookNotifier_NotifyCampsites(t *testing.T) {
	var captured WebhookPayload
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(WebhookConfig{
		URL:     server.URL,
		Headers: map[string]string{"Authorization": "Bearer token"},
		Timeout: 5 * time.Second,
	})

	err := n.NotifyCampsites(context.Background(), []entity.AvailableCampsite{testCampsite("c1")})

	require.NoError(t, err)
	assert.Equal(t, "Bearer token", auth)
	require.Len(t, captured.Campsites, 1)
	assert.Equal(t, "c1", captured.Campsites[0].CampsiteID)
	assert.Empty(t, captured.Message)
}

func TestWebhookNotifier_NotifyMessage(t *testing.T) {
	var captured WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
	}))
	defer server.Close()

	n := NewWebhookNotifier(WebhookConfig{URL: server.URL, Timeout: 5 * time.Second})

	require.NoError(t, n.NotifyMessage(context.Background(), "ping"))
	assert.Equal(t, "ping", captured.Message)
	assert.Empty(t, captured.Campsites)
}

func TestSilentNotifier(t *testing.T) {
	n := NewSilentNotifier()
	assert.NoError(t, n.NotifyCampsites(context.Background(), []entity.AvailableCampsite{testCampsite("c1")}))
	assert.NoError(t, n.NotifyMessage(context.Background(), "hello"))
}
