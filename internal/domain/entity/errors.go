package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSearchDays indicates that date expansion produced an empty set of
	// search days (the whole window is in the past, or weekday filtering
	// eliminated every day). This is a fatal configuration error.
	ErrNoSearchDays = errors.New("no search days configured")

	// ErrNoSearchTargets indicates that a search was started without a
	// campground, query, or recreation-area selector.
	ErrNoSearchTargets = errors.New("no search targets selected")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
