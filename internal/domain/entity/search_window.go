// Package entity defines the core domain model for campsite availability
// searching. The types in this package are provider-agnostic: every upstream
// reservation system is normalized into these shapes before the search core
// touches the data.
package entity

import (
	"fmt"
	"time"
)

// SearchWindow is a caller-supplied date range to search within, at day
// granularity. Multiple windows may be supplied to a search; they are treated
// as a union and are not required to be contiguous or non-overlapping.
type SearchWindow struct {
	StartDate time.Time `yaml:"start_date"`
	EndDate   time.Time `yaml:"end_date"`
}

// Validate checks that the window is well formed. The end date must not be
// before the start date.
func (w SearchWindow) Validate() error {
	if w.StartDate.IsZero() || w.EndDate.IsZero() {
		return &ValidationError{Field: "search_window", Message: "start_date and end_date are required"}
	}
	if w.EndDate.Before(w.StartDate) {
		return &ValidationError{
			Field:   "search_window",
			Message: fmt.Sprintf("end_date %s is before start_date %s", w.EndDate.Format(DateLayout), w.StartDate.Format(DateLayout)),
		}
	}
	return nil
}

// DateRange returns every day in the window, inclusive of both endpoints,
// truncated to midnight UTC.
func (w SearchWindow) DateRange() []time.Time {
	start := Midnight(w.StartDate)
	end := Midnight(w.EndDate)
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DateLayout is the canonical date format used in logs and notifications.
const DateLayout = "2006-01-02"

// Midnight truncates a time to midnight UTC. All search days and booking
// dates are stored in this form so that date arithmetic and set membership
// behave as day-level operations.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first day of t's month, truncated to midnight UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
