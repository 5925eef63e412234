package notifier

import (
	"context"
	"log/slog"

	"campwatch/internal/domain/entity"
)

// SilentNotifier writes notifications to the log and nowhere else. It is
// always part of the channel set, so every found campsite leaves a trace
// even when no outbound channel is configured.
type SilentNotifier struct{}

// NewSilentNotifier creates a new SilentNotifier instance.
func NewSilentNotifier() *SilentNotifier {
	return &SilentNotifier{}
}

// NotifyCampsites logs each campsite at info level.
func (n *SilentNotifier) NotifyCampsites(ctx context.Context, campsites []entity.AvailableCampsite) error {
	for _, site := range campsites {
		slog.Info("campsite available",
			slog.String("campsite", site.String()),
			slog.String("booking_url", site.BookingURL))
	}
	return nil
}

// NotifyMessage logs the message at info level.
func (n *SilentNotifier) NotifyMessage(ctx context.Context, message string) error {
	slog.Info("notification", slog.String("message", message))
	return nil
}
