package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campwatch/internal/domain/entity"
)

func writeSearchFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "search.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSearchFile(t *testing.T) {
	path := writeSearchFile(t, `
provider: recreationgov
recreation_area: 2991
start_date: 2026-07-01
end_date: 2026-07-14
nights: 2
weekends_only: true
search_forever: true
notify_first_try: false
polling_interval: 10m
notifications:
  - slack
  - discord
offline_search_path: /var/lib/campwatch/ledger.json
`)

	sf, err := LoadSearchFile(path)
	require.NoError(t, err)

	assert.Equal(t, "recreationgov", sf.Provider)
	assert.Equal(t, StringList{"2991"}, sf.RecreationArea)
	assert.Equal(t, 2, sf.Nights)
	assert.True(t, sf.WeekendsOnly)
	assert.True(t, sf.SearchForever)
	assert.False(t, sf.NotifyFirstTry)
	assert.Equal(t, 10*time.Minute, sf.PollingInterval.Duration)
	assert.Equal(t, StringList{"slack", "discord"}, sf.Notifications)
	assert.Equal(t, "/var/lib/campwatch/ledger.json", sf.OfflineSearch)

	windows := sf.SearchWindows()
	require.Len(t, windows, 1)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), windows[0].StartDate)
	assert.Equal(t, time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC), windows[0].EndDate)

	criteria := sf.Criteria()
	assert.Equal(t, []string{"2991"}, criteria.RecreationAreaIDs)
	require.NoError(t, criteria.Validate())
}

func TestLoadSearchFile_ScalarAndListEquivalent(t *testing.T) {
	scalar := writeSearchFile(t, `
campground: 232448
start_date: 2026-07-01
end_date: 2026-07-03
`)
	list := writeSearchFile(t, `
campground:
  - 232448
start_date: 2026-07-01
end_date: 2026-07-03
`)

	fromScalar, err := LoadSearchFile(scalar)
	require.NoError(t, err)
	fromList, err := LoadSearchFile(list)
	require.NoError(t, err)

	assert.Equal(t, fromScalar.Campground, fromList.Campground)
}

func TestLoadSearchFile_ExtraWindows(t *testing.T) {
	path := writeSearchFile(t, `
campground: 232448
start_date: 2026-07-01
end_date: 2026-07-03
windows:
  - start_date: 2026-08-10
    end_date: 2026-08-12
`)

	sf, err := LoadSearchFile(path)
	require.NoError(t, err)

	windows := sf.SearchWindows()
	require.Len(t, windows, 2)
	assert.Equal(t, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), windows[1].StartDate)
}

func TestLoadSearchFile_IntervalAsMinutes(t *testing.T) {
	path := writeSearchFile(t, `
campground: 232448
start_date: 2026-07-01
end_date: 2026-07-03
polling_interval: 15
`)

	sf, err := LoadSearchFile(path)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, sf.PollingInterval.Duration)
}

func TestLoadSearchFile_RunModeKeys(t *testing.T) {
	path := writeSearchFile(t, `
campground: 232448
start_date: 2026-07-01
end_date: 2026-07-03
continuous: true
`)

	sf, err := LoadSearchFile(path)
	require.NoError(t, err)
	assert.True(t, sf.Continuous)
	assert.False(t, sf.SearchOnce)

	path = writeSearchFile(t, `
campground: 232448
start_date: 2026-07-01
end_date: 2026-07-03
search_once: true
`)

	sf, err = LoadSearchFile(path)
	require.NoError(t, err)
	assert.True(t, sf.SearchOnce)
}

func TestLoadSearchFile_SearchOnceConflicts(t *testing.T) {
	path := writeSearchFile(t, `
campground: 232448
start_date: 2026-07-01
end_date: 2026-07-03
search_once: true
search_forever: true
`)

	_, err := LoadSearchFile(path)
	require.Error(t, err)

	var verr *entity.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSearchFile_Weekdays(t *testing.T) {
	sf := &SearchFile{DaysOfTheWeek: StringList{"Friday", "saturday"}}

	days, err := sf.Weekdays()
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Friday, time.Saturday}, days)
}

func TestSearchFile_Weekdays_Unknown(t *testing.T) {
	sf := &SearchFile{DaysOfTheWeek: StringList{"Funday"}}

	_, err := sf.Weekdays()
	require.Error(t, err)

	var verr *entity.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLoadSearchFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing end date",
			content: `
campground: 232448
start_date: 2026-07-01
`,
		},
		{
			name: "no date range at all",
			content: `
campground: 232448
`,
		},
		{
			name: "no selector",
			content: `
start_date: 2026-07-01
end_date: 2026-07-03
`,
		},
		{
			name: "two selectors",
			content: `
campground: 232448
query: yosemite
start_date: 2026-07-01
end_date: 2026-07-03
`,
		},
		{
			name: "negative nights",
			content: `
campground: 232448
start_date: 2026-07-01
end_date: 2026-07-03
nights: -1
`,
		},
		{
			name: "bad date format",
			content: `
campground: 232448
start_date: 07/01/2026
end_date: 2026-07-03
`,
		},
		{
			name: "bad weekday",
			content: `
campground: 232448
start_date: 2026-07-01
end_date: 2026-07-03
days_of_the_week: [Caturday]
`,
		},
		{
			name: "bad interval",
			content: `
campground: 232448
start_date: 2026-07-01
end_date: 2026-07-03
polling_interval: soon
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSearchFile(t, tt.content)
			_, err := LoadSearchFile(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadSearchFile_MissingFile(t *testing.T) {
	_, err := LoadSearchFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("RIDB_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/campwatch")
	t.Setenv("METRICS_PORT", "9191")

	cfg := FromEnv()
	assert.Equal(t, "test-key", cfg.RIDBAPIKey)
	assert.Equal(t, "postgres://localhost/campwatch", cfg.DatabaseURL)
	assert.Equal(t, 9191, cfg.MetricsPort)
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("RIDB_API_KEY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("METRICS_PORT", "")

	cfg := FromEnv()
	assert.Equal(t, DefaultMetricsPort, cfg.MetricsPort)
	assert.Empty(t, cfg.DatabaseURL)
}
