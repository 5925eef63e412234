package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"time"

	"github.com/google/uuid"

	"campwatch/internal/domain/entity"
)

// dispatchTimeout bounds one channel's delivery of one dispatch, covering
// the channel's own rate limiting and retries.
const dispatchTimeout = 2 * time.Minute

// Dispatcher broadcasts notifications to every configured channel in a
// stable order: silent channels first, then the rest in the order given.
// The silent channel always runs, so a campsite is on record even when a
// human-facing webhook is down.
//
// Channels are dispatched sequentially, not concurrently: a burst of
// cancellations must not land in Discord before it lands in the log, and
// webhook endpoints rate-limit aggressively anyway.
type Dispatcher struct {
	channels []Channel
}

// NewDispatcher builds a dispatcher over the given channels. A silent
// channel is prepended when the caller did not include one.
func NewDispatcher(channels ...Channel) *Dispatcher {
	hasSilent := false
	for _, ch := range channels {
		if ch.Silent() {
			hasSilent = true
			break
		}
	}
	ordered := make([]Channel, 0, len(channels)+1)
	if !hasSilent {
		ordered = append(ordered, NewSilentChannel())
	}
	ordered = append(ordered, channels...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Silent() && !ordered[j].Silent()
	})
	return &Dispatcher{channels: ordered}
}

// HasNonSilent reports whether any channel reaches a human.
func (d *Dispatcher) HasNonSilent() bool {
	for _, ch := range d.channels {
		if !ch.Silent() {
			return true
		}
	}
	return false
}

// ChannelNames returns the dispatch order, for startup logging.
func (d *Dispatcher) ChannelNames() []string {
	names := make([]string, 0, len(d.channels))
	for _, ch := range d.channels {
		names = append(names, ch.Name())
	}
	return names
}

// SendCampsites broadcasts a campsite batch to every channel. A failing
// channel is logged and skipped; the combined error is returned after every
// channel has been attempted.
func (d *Dispatcher) SendCampsites(ctx context.Context, campsites []entity.AvailableCampsite) error {
	if len(campsites) == 0 {
		return nil
	}
	return d.broadcast(ctx, "campsites", func(ctx context.Context, ch Channel) error {
		return ch.SendCampsites(ctx, campsites)
	})
}

// SendMessage broadcasts a plain text message to every channel.
func (d *Dispatcher) SendMessage(ctx context.Context, message string) error {
	return d.broadcast(ctx, "message", func(ctx context.Context, ch Channel) error {
		return ch.SendMessage(ctx, message)
	})
}

func (d *Dispatcher) broadcast(ctx context.Context, kind string, send func(context.Context, Channel) error) error {
	requestID := uuid.New().String()
	var errs []error
	for _, ch := range d.channels {
		if err := d.sendOne(ctx, ch, send); err != nil {
			slog.Error("notification channel failed",
				slog.String("request_id", requestID),
				slog.String("channel", ch.Name()),
				slog.String("kind", kind),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
			continue
		}
		slog.Debug("notification dispatched",
			slog.String("request_id", requestID),
			slog.String("channel", ch.Name()),
			slog.String("kind", kind))
	}
	return errors.Join(errs...)
}

// sendOne runs one channel delivery under its own timeout, converting a
// panicking channel into an error instead of taking the watcher down.
func (d *Dispatcher) sendOne(ctx context.Context, ch Channel, send func(context.Context, Channel) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in notification channel",
				slog.String("channel", ch.Name()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			err = fmt.Errorf("channel panicked: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()
	return send(ctx, ch)
}
