package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campwatch/internal/domain/entity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func window(start, end time.Time) entity.SearchWindow {
	return entity.SearchWindow{StartDate: start, EndDate: end}
}

func TestExpandWindows(t *testing.T) {
	now := day(2024, 6, 1)
	windows := []entity.SearchWindow{window(day(2024, 7, 1), day(2024, 7, 10))}

	days, months, err := ExpandWindows(windows, now, WindowOptions{})

	require.NoError(t, err)
	assert.Len(t, days, 10)
	assert.Equal(t, day(2024, 7, 1), days[0])
	assert.Equal(t, day(2024, 7, 10), days[9])
	require.Len(t, months, 1)
	assert.Equal(t, day(2024, 7, 1), months[0])
}

func TestExpandWindows_DropsPastDays(t *testing.T) {
	// The clock sits mid-window; only today and later survive.
	now := time.Date(2024, 7, 5, 14, 30, 0, 0, time.UTC)
	windows := []entity.SearchWindow{window(day(2024, 7, 1), day(2024, 7, 10))}

	days, _, err := ExpandWindows(windows, now, WindowOptions{})

	require.NoError(t, err)
	require.Len(t, days, 6)
	assert.Equal(t, day(2024, 7, 5), days[0])
}

func TestExpandWindows_WeekendsOnly(t *testing.T) {
	// July 2024: the 5th, 6th, 12th and 13th are the Fri/Sat nights in range.
	windows := []entity.SearchWindow{window(day(2024, 7, 1), day(2024, 7, 14))}

	days, _, err := ExpandWindows(windows, day(2024, 6, 1), WindowOptions{WeekendsOnly: true})

	require.NoError(t, err)
	require.Len(t, days, 4)
	assert.Equal(t, day(2024, 7, 5), days[0])
	assert.Equal(t, day(2024, 7, 6), days[1])
	assert.Equal(t, day(2024, 7, 12), days[2])
	assert.Equal(t, day(2024, 7, 13), days[3])
}

func TestExpandWindows_DaysOfWeek(t *testing.T) {
	windows := []entity.SearchWindow{window(day(2024, 7, 1), day(2024, 7, 14))}
	opts := WindowOptions{DaysOfWeek: []time.Weekday{time.Wednesday}}

	days, _, err := ExpandWindows(windows, day(2024, 6, 1), opts)

	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, day(2024, 7, 3), days[0])
	assert.Equal(t, day(2024, 7, 10), days[1])
}

func TestExpandWindows_MultipleWindowsMergeAndSort(t *testing.T) {
	windows := []entity.SearchWindow{
		window(day(2024, 8, 1), day(2024, 8, 3)),
		window(day(2024, 7, 30), day(2024, 8, 2)), // overlaps the first
	}

	days, months, err := ExpandWindows(windows, day(2024, 6, 1), WindowOptions{})

	require.NoError(t, err)
	require.Len(t, days, 5)
	assert.Equal(t, day(2024, 7, 30), days[0])
	assert.Equal(t, day(2024, 8, 3), days[4])
	require.Len(t, months, 2)
	assert.Equal(t, day(2024, 7, 1), months[0])
	assert.Equal(t, day(2024, 8, 1), months[1])
}

func TestExpandWindows_Errors(t *testing.T) {
	_, _, err := ExpandWindows(nil, day(2024, 6, 1), WindowOptions{})
	assert.ErrorIs(t, err, entity.ErrNoSearchDays)

	// Whole window already in the past.
	past := []entity.SearchWindow{window(day(2024, 5, 1), day(2024, 5, 10))}
	_, _, err = ExpandWindows(past, day(2024, 6, 1), WindowOptions{})
	assert.ErrorIs(t, err, entity.ErrNoSearchDays)

	// Weekday filter eliminates every day.
	short := []entity.SearchWindow{window(day(2024, 7, 1), day(2024, 7, 2))} // Mon, Tue
	_, _, err = ExpandWindows(short, day(2024, 6, 1), WindowOptions{WeekendsOnly: true})
	assert.ErrorIs(t, err, entity.ErrNoSearchDays)

	inverted := []entity.SearchWindow{window(day(2024, 7, 10), day(2024, 7, 1))}
	_, _, err = ExpandWindows(inverted, day(2024, 6, 1), WindowOptions{})
	assert.Error(t, err)
}

func TestClampNights(t *testing.T) {
	consecutive := []time.Time{
		day(2024, 7, 1), day(2024, 7, 2), day(2024, 7, 3),
	}
	assert.Equal(t, 3, clampNights(3, consecutive))
	assert.Equal(t, 2, clampNights(2, consecutive))
	assert.Equal(t, 1, clampNights(1, nil))

	// Longest consecutive run is 2 days, so a 4-night ask is lowered.
	weekends := []time.Time{
		day(2024, 7, 5), day(2024, 7, 6),
		day(2024, 7, 12), day(2024, 7, 13),
	}
	assert.Equal(t, 2, clampNights(4, weekends))
}
