package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"campwatch/internal/domain/entity"
	"campwatch/internal/provider"
)

// SearchFile is the YAML search definition. A file describes one search:
// what to look for, when, and how to report it.
//
// Example:
//
//	provider: recreationgov
//	recreation_area: 2991
//	start_date: 2026-07-01
//	end_date: 2026-07-14
//	nights: 2
//	weekends_only: true
//	search_forever: true
//	polling_interval: 10m
//	notifications:
//	  - slack
type SearchFile struct {
	Provider        string     `yaml:"provider"`
	RecreationArea  StringList `yaml:"recreation_area"`
	Campground      StringList `yaml:"campground"`
	Campsites       StringList `yaml:"campsites"`
	Query           string     `yaml:"query"`
	StartDate       Date       `yaml:"start_date"`
	EndDate         Date       `yaml:"end_date"`
	Windows         []Window   `yaml:"windows"`
	Nights          int        `yaml:"nights"`
	WeekendsOnly    bool       `yaml:"weekends_only"`
	DaysOfTheWeek   StringList `yaml:"days_of_the_week"`
	Equipment       StringList `yaml:"equipment"`
	Continuous      bool       `yaml:"continuous"`
	SearchOnce      bool       `yaml:"search_once"`
	SearchForever   bool       `yaml:"search_forever"`
	NotifyFirstTry  bool       `yaml:"notify_first_try"`
	PollingInterval Duration   `yaml:"polling_interval"`
	Notifications   StringList `yaml:"notifications"`
	OfflineSearch   string     `yaml:"offline_search_path"`
}

// Window is an additional date range beyond the top-level start/end pair.
type Window struct {
	StartDate Date `yaml:"start_date"`
	EndDate   Date `yaml:"end_date"`
}

// LoadSearchFile reads and validates a YAML search file.
func LoadSearchFile(path string) (*SearchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read search file: %w", err)
	}

	var sf SearchFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse search file %s: %w", path, err)
	}
	if err := sf.Validate(); err != nil {
		return nil, fmt.Errorf("search file %s: %w", path, err)
	}
	return &sf, nil
}

// Validate checks the search definition for structural errors. Selector
// exclusivity and window expansion are validated again by the search core;
// this catches file-level mistakes early with file-oriented messages.
func (f *SearchFile) Validate() error {
	if f.StartDate.IsZero() != f.EndDate.IsZero() {
		return &entity.ValidationError{Field: "start_date", Message: "start_date and end_date must be set together"}
	}
	if f.StartDate.IsZero() && len(f.Windows) == 0 {
		return &entity.ValidationError{Field: "start_date", Message: "at least one date range is required"}
	}
	for _, w := range f.Windows {
		if w.StartDate.IsZero() || w.EndDate.IsZero() {
			return &entity.ValidationError{Field: "windows", Message: "every window needs start_date and end_date"}
		}
	}
	if f.Nights < 0 {
		return &entity.ValidationError{Field: "nights", Message: "nights must not be negative"}
	}
	if f.SearchOnce && (f.Continuous || f.SearchForever) {
		return &entity.ValidationError{Field: "search_once", Message: "search_once cannot be combined with continuous or search_forever"}
	}
	if err := f.Criteria().Validate(); err != nil {
		return err
	}
	if _, err := f.Weekdays(); err != nil {
		return err
	}
	return nil
}

// Criteria builds the campground selector from the file.
func (f *SearchFile) Criteria() provider.CampgroundCriteria {
	return provider.CampgroundCriteria{
		CampgroundIDs:     f.Campground,
		Query:             f.Query,
		RecreationAreaIDs: f.RecreationArea,
	}
}

// SearchWindows returns every date range in the file as domain windows.
func (f *SearchFile) SearchWindows() []entity.SearchWindow {
	var windows []entity.SearchWindow
	if !f.StartDate.IsZero() {
		windows = append(windows, entity.SearchWindow{
			StartDate: f.StartDate.Time,
			EndDate:   f.EndDate.Time,
		})
	}
	for _, w := range f.Windows {
		windows = append(windows, entity.SearchWindow{
			StartDate: w.StartDate.Time,
			EndDate:   w.EndDate.Time,
		})
	}
	return windows
}

// Weekdays parses days_of_the_week into time.Weekday values.
func (f *SearchFile) Weekdays() ([]time.Weekday, error) {
	if len(f.DaysOfTheWeek) == 0 {
		return nil, nil
	}
	days := make([]time.Weekday, 0, len(f.DaysOfTheWeek))
	for _, name := range f.DaysOfTheWeek {
		day, err := parseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, &entity.ValidationError{
			Field:   "days_of_the_week",
			Message: fmt.Sprintf("unknown weekday %q", name),
		}
	}
	return day, nil
}

// StringList accepts either a single YAML scalar or a sequence. Numeric
// scalars are converted to their string form, so campground IDs can be
// written unquoted.
type StringList []string

func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make(StringList, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: expected scalar list item", item.Line)
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: expected scalar or list", value.Line)
	}
}

// Date is a calendar day in ISO 8601 form (2006-01-02).
type Date struct {
	time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" || value.Value == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(entity.DateLayout, value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid date %q (want YYYY-MM-DD)", value.Line, value.Value)
	}
	d.Time = t
	return nil
}

// Duration accepts either a Go duration string ("10m", "1h30m") or a bare
// integer interpreted as minutes, matching the original search-file format.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" || value.Value == "" {
		d.Duration = 0
		return nil
	}
	if minutes, err := strconv.Atoi(value.Value); err == nil {
		d.Duration = time.Duration(minutes) * time.Minute
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid polling interval %q", value.Line, value.Value)
	}
	d.Duration = parsed
	return nil
}
