// Package search implements the provider-agnostic search core: expanding
// caller-supplied date windows into concrete search targets, driving a
// provider adapter across facility and month combinations, consolidating
// raw single-night availability into bookable blocks, and running the whole
// thing continuously with deduplication and notification fan-out.
package search

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"campwatch/internal/domain/entity"
)

// WindowOptions filters which weekdays of a search window become search days.
type WindowOptions struct {
	// WeekendsOnly restricts search days to Friday and Saturday nights.
	WeekendsOnly bool

	// DaysOfWeek restricts search days to an explicit set of weekdays.
	// Empty means every weekday is allowed. Combined with WeekendsOnly the
	// intersection applies.
	DaysOfWeek []time.Weekday
}

// weekendNights are the weekday values of bookable weekend nights: a Friday
// or Saturday night covers the Fri->Sat and Sat->Sun stays.
var weekendNights = []time.Weekday{time.Friday, time.Saturday}

// allowedWeekdays resolves the options into the set of permitted weekdays.
func (o WindowOptions) allowedWeekdays() map[time.Weekday]bool {
	allowed := make(map[time.Weekday]bool, 7)
	if len(o.DaysOfWeek) == 0 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			allowed[d] = true
		}
	} else {
		for _, d := range o.DaysOfWeek {
			allowed[d] = true
		}
	}
	if o.WeekendsOnly {
		weekend := make(map[time.Weekday]bool, len(weekendNights))
		for _, d := range weekendNights {
			if allowed[d] {
				weekend[d] = true
			}
		}
		allowed = weekend
	}
	return allowed
}

// ExpandWindows turns one or more search windows into the sorted, unique set
// of days to search and the distinct month starts that must be queried.
// Days before now's date are dropped silently; both slices are sorted
// ascending, which downstream logging and run detection rely on.
//
// An empty result is a fatal configuration error (entity.ErrNoSearchDays),
// never retried.
func ExpandWindows(windows []entity.SearchWindow, now time.Time, opts WindowOptions) (days, months []time.Time, err error) {
	if len(windows) == 0 {
		return nil, nil, fmt.Errorf("%w: no search windows supplied", entity.ErrNoSearchDays)
	}
	for _, w := range windows {
		if err := w.Validate(); err != nil {
			return nil, nil, err
		}
	}

	today := entity.Midnight(now)
	allowed := opts.allowedWeekdays()

	daySet := make(map[time.Time]bool)
	for _, w := range windows {
		for _, day := range w.DateRange() {
			if day.Before(today) {
				continue
			}
			if !allowed[day.Weekday()] {
				continue
			}
			daySet[day] = true
		}
	}
	if len(daySet) == 0 {
		return nil, nil, entity.ErrNoSearchDays
	}

	days = make([]time.Time, 0, len(daySet))
	monthSet := make(map[time.Time]bool)
	for day := range daySet {
		days = append(days, day)
		monthSet[entity.MonthStart(day)] = true
	}
	months = make([]time.Time, 0, len(monthSet))
	for month := range monthSet {
		months = append(months, month)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	slog.Info("booking nights selected for search",
		slog.Int("nights", len(days)),
		slog.String("first", days[0].Format(entity.DateLayout)),
		slog.String("last", days[len(days)-1].Format(entity.DateLayout)),
		slog.Int("months", len(months)))

	return days, months, nil
}

// clampNights caps the requested minimum stay to the longest run of
// consecutive search days. Asking for a 7-night stay inside a
// weekends-only search can never match, so the requirement is lowered to
// the maximum that can.
func clampNights(nights int, searchDays []time.Time) int {
	if nights <= 1 {
		return nights
	}
	largest, run := 0, 0
	var prev time.Time
	for i, day := range searchDays {
		if i == 0 || day.Sub(prev) != 24*time.Hour {
			run = 1
		} else {
			run++
		}
		if run > largest {
			largest = run
		}
		prev = day
	}
	if nights > largest {
		slog.Warn("too many consecutive nights selected, clamping to the largest possible stay",
			slog.Int("requested", nights),
			slog.Int("clamped", largest))
		return largest
	}
	return nights
}
