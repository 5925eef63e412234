package provider

import (
	"errors"
	"fmt"

	"campwatch/internal/domain/entity"
)

// ErrSearch indicates a provider could not complete a search operation.
var ErrSearch = errors.New("provider search failed")

// NotFoundError reports that a specifically identified upstream resource
// (facility, recreation area, campsite) does not exist. It is never retried
// and must not abort a multi-target run.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found upstream", e.Resource, e.ID)
}

// Unwrap makes NotFoundError match entity.ErrNotFound with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return entity.ErrNotFound
}

// IsNotFound reports whether err is a resource-not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, entity.ErrNotFound)
}
