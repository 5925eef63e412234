package notify

import "errors"

// Sentinel errors for notify use case operations.
var (
	// ErrMissingCredentials indicates a channel was configured without the
	// credentials it needs (webhook URL, token). Channels validate
	// eagerly at construction so this surfaces at startup.
	ErrMissingCredentials = errors.New("missing channel credentials")

	// ErrUnknownChannel indicates a channel name that no constructor is
	// registered for.
	ErrUnknownChannel = errors.New("unknown notification channel")
)
