// Package notifier provides delivery backends for campsite notifications.
// It defines the Notifier interface which allows different delivery
// mechanisms (Slack, Discord, generic webhooks) to be used interchangeably
// through dependency injection, plus a silent implementation that only logs.
package notifier

import (
	"context"

	"campwatch/internal/domain/entity"
)

// Notifier is an interface for delivering campsite notifications.
// Implementations should handle rate limiting, retries, and error logging
// internally.
type Notifier interface {
	// NotifyCampsites delivers a batch of newly available campsites.
	NotifyCampsites(ctx context.Context, campsites []entity.AvailableCampsite) error

	// NotifyMessage delivers a plain text message, used for operational
	// notices such as the watcher exiting on a fatal error.
	NotifyMessage(ctx context.Context, message string) error
}
