package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchWindow_Validate(t *testing.T) {
	valid := SearchWindow{StartDate: date(2024, 7, 1), EndDate: date(2024, 7, 10)}
	assert.NoError(t, valid.Validate())

	sameDay := SearchWindow{StartDate: date(2024, 7, 1), EndDate: date(2024, 7, 1)}
	assert.NoError(t, sameDay.Validate())

	inverted := SearchWindow{StartDate: date(2024, 7, 10), EndDate: date(2024, 7, 1)}
	assert.Error(t, inverted.Validate())

	assert.Error(t, SearchWindow{}.Validate())
}

func TestSearchWindow_DateRange(t *testing.T) {
	w := SearchWindow{
		StartDate: time.Date(2024, 7, 1, 13, 45, 0, 0, time.UTC),
		EndDate:   date(2024, 7, 4),
	}
	days := w.DateRange()
	require.Len(t, days, 4)
	// Days are truncated to midnight regardless of the input time-of-day.
	assert.Equal(t, date(2024, 7, 1), days[0])
	assert.Equal(t, date(2024, 7, 4), days[3])
}

func TestSearchWindow_DateRange_CrossesMonthBoundary(t *testing.T) {
	w := SearchWindow{StartDate: date(2024, 6, 29), EndDate: date(2024, 7, 2)}
	days := w.DateRange()
	require.Len(t, days, 4)
	assert.Equal(t, date(2024, 6, 30), days[1])
	assert.Equal(t, date(2024, 7, 1), days[2])
}

func TestMonthStart(t *testing.T) {
	assert.Equal(t, date(2024, 7, 1), MonthStart(date(2024, 7, 19)))
	assert.Equal(t, date(2024, 7, 1), MonthStart(date(2024, 7, 1)))
}
