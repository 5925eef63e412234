package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campwatch/internal/domain/entity"
)

// mockChannel records dispatch order and can fail or panic on demand.
type mockChannel struct {
	name    string
	silent  bool
	err     error
	panics  bool
	calls   *[]string
	batches [][]entity.AvailableCampsite
}

func (m *mockChannel) Name() string { return m.name }
func (m *mockChannel) Silent() bool { return m.silent }

func (m *mockChannel) SendCampsites(ctx context.Context, campsites []entity.AvailableCampsite) error {
	*m.calls = append(*m.calls, m.name)
	m.batches = append(m.batches, campsites)
	if m.panics {
		panic("mock panic in SendCampsites")
	}
	return m.err
}

func (m *mockChannel) SendMessage(ctx context.Context, message string) error {
	*m.calls = append(*m.calls, m.name)
	if m.panics {
		panic("mock panic in SendMessage")
	}
	return m.err
}

func sampleBatch() []entity.AvailableCampsite {
	start := time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)
	return []entity.AvailableCampsite{{
		CampsiteID:     "c1",
		BookingDate:    start,
		BookingEndDate: start.AddDate(0, 0, 1),
		BookingNights:  1,
		SiteName:       "Site c1",
	}}
}

func TestDispatcher_SilentChannelsRunFirst(t *testing.T) {
	var calls []string
	d := NewDispatcher(
		&mockChannel{name: "slack", calls: &calls},
		&mockChannel{name: "logfile", silent: true, calls: &calls},
		&mockChannel{name: "discord", calls: &calls},
	)

	require.NoError(t, d.SendCampsites(context.Background(), sampleBatch()))

	assert.Equal(t, []string{"logfile", "slack", "discord"}, calls)
}

func TestDispatcher_PrependsSilentBaseline(t *testing.T) {
	var calls []string
	d := NewDispatcher(&mockChannel{name: "slack", calls: &calls})

	assert.Equal(t, []string{"silent", "slack"}, d.ChannelNames())
}

func TestDispatcher_FailureDoesNotBlockOtherChannels(t *testing.T) {
	var calls []string
	failing := &mockChannel{name: "slack", err: errors.New("webhook down"), calls: &calls}
	healthy := &mockChannel{name: "discord", calls: &calls}
	d := NewDispatcher(
		&mockChannel{name: "silent", silent: true, calls: &calls},
		failing, healthy,
	)

	err := d.SendCampsites(context.Background(), sampleBatch())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "slack")
	// Every channel was still attempted.
	assert.Equal(t, []string{"silent", "slack", "discord"}, calls)
	require.Len(t, healthy.batches, 1)
}

func TestDispatcher_PanicIsIsolated(t *testing.T) {
	var calls []string
	d := NewDispatcher(
		&mockChannel{name: "silent", silent: true, calls: &calls},
		&mockChannel{name: "broken", panics: true, calls: &calls},
		&mockChannel{name: "discord", calls: &calls},
	)

	err := d.SendMessage(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.Equal(t, []string{"silent", "broken", "discord"}, calls)
}

func TestDispatcher_EmptyBatchIsNoOp(t *testing.T) {
	var calls []string
	d := NewDispatcher(&mockChannel{name: "slack", calls: &calls})

	require.NoError(t, d.SendCampsites(context.Background(), nil))
	assert.Empty(t, calls)
}

func TestDispatcher_HasNonSilent(t *testing.T) {
	var calls []string
	assert.False(t, NewDispatcher().HasNonSilent())
	assert.True(t, NewDispatcher(&mockChannel{name: "slack", calls: &calls}).HasNonSilent())
}
