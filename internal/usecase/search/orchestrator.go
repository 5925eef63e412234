package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campwatch/internal/domain/entity"
	"campwatch/internal/observability/metrics"
	"campwatch/internal/provider"
)

// Params describes one availability search.
type Params struct {
	// Criteria selects the campgrounds to search. Exactly one selector
	// must be populated.
	Criteria provider.CampgroundCriteria

	// Windows are the date ranges to search within.
	Windows []entity.SearchWindow

	// Nights is the minimum consecutive-night stay. Values below 1 are
	// treated as 1.
	Nights int

	// WeekendsOnly restricts search days to Friday and Saturday nights.
	WeekendsOnly bool

	// DaysOfWeek restricts search days to an explicit set of weekdays.
	DaysOfWeek []time.Weekday

	// CampsiteIDs, when non-empty, keeps only these campsites in the
	// results.
	CampsiteIDs []string

	// Equipment, when non-empty, restricts results to campsites that
	// permit the given equipment. Ignored when the adapter does not
	// expose equipment data.
	Equipment []entity.Equipment
}

// Orchestrator runs one full availability search against a single provider:
// expand the windows, resolve the campgrounds, fetch and normalize every
// facility/month combination, then consolidate into bookable blocks.
type Orchestrator struct {
	adapter provider.Adapter
	pacer   Pacer
	now     func() time.Time
}

// NewOrchestrator builds an orchestrator for the given adapter. A nil pacer
// falls back to the default jittered inter-request delay.
func NewOrchestrator(adapter provider.Adapter, pacer Pacer) *Orchestrator {
	if pacer == nil {
		pacer = DefaultPacer()
	}
	return &Orchestrator{
		adapter: adapter,
		pacer:   pacer,
		now:     time.Now,
	}
}

// Run executes one search and returns the matching campsites, sorted by
// booking date, facility, and campsite ID.
//
// Configuration problems (no selector, overlapping selectors, an empty
// expanded window) fail immediately. Per-facility fetch failures do not:
// a facility that is unknown upstream or temporarily unreachable is logged
// and skipped so one bad campground cannot sink a multi-campground search.
func (o *Orchestrator) Run(ctx context.Context, params Params) ([]entity.AvailableCampsite, error) {
	start := o.now()
	results, err := o.run(ctx, params)
	metrics.RecordSearchIteration(o.now().Sub(start), len(results), err)
	return results, err
}

func (o *Orchestrator) run(ctx context.Context, params Params) ([]entity.AvailableCampsite, error) {
	if err := params.Criteria.Validate(); err != nil {
		return nil, err
	}

	days, months, err := ExpandWindows(params.Windows, o.now(), WindowOptions{
		WeekendsOnly: params.WeekendsOnly,
		DaysOfWeek:   params.DaysOfWeek,
	})
	if err != nil {
		return nil, err
	}
	nights := clampNights(params.Nights, days)

	campgrounds, err := o.adapter.FindCampgrounds(ctx, params.Criteria)
	if err != nil {
		return nil, fmt.Errorf("resolving campgrounds: %w", err)
	}
	if len(campgrounds) == 0 {
		return nil, fmt.Errorf("%w: no campgrounds matched the search criteria", entity.ErrNotFound)
	}
	metrics.UpdateFacilitiesSearched(len(campgrounds))

	session := SearchSession{SearchDays: days, SearchMonths: months, Campgrounds: campgrounds}
	records, err := o.collect(ctx, session)
	if err != nil {
		return nil, err
	}

	records = filterCampsiteIDs(records, params.CampsiteIDs)
	if len(params.Equipment) > 0 {
		if filterer, ok := o.adapter.(provider.EquipmentFilterer); ok {
			records = filterer.FilterByEquipment(records, params.Equipment)
		} else {
			slog.Warn("provider does not expose equipment data, ignoring equipment filter",
				slog.String("provider", o.adapter.Name()))
		}
	}

	results := Consolidate(records, nights, days)
	logAvailability(results, session)
	return results, nil
}

// collect fetches and normalizes availability for every facility/month pair
// in the session. Requests against the same upstream are paced; failures are
// isolated per facility.
func (o *Orchestrator) collect(ctx context.Context, session SearchSession) ([]entity.AvailableCampsite, error) {
	var (
		records []entity.AvailableCampsite
		first   = true
	)
	for _, facility := range session.Campgrounds {
	months:
		for _, month := range session.SearchMonths {
			if !first {
				if err := o.pacer.Pace(ctx); err != nil {
					return nil, err
				}
			}
			first = false

			raw, err := o.adapter.FetchMonthAvailability(ctx, facility.FacilityID, month)
			switch {
			case err == nil:
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return nil, err
			case provider.IsNotFound(err):
				slog.Warn("campground not found upstream, skipping",
					slog.String("facility", facility.String()),
					slog.String("provider", o.adapter.Name()))
				continue months
			default:
				slog.Error("availability fetch failed, skipping facility month",
					slog.String("facility", facility.String()),
					slog.String("month", month.Format("2006-01")),
					slog.String("error", err.Error()))
				continue months
			}

			sites, err := o.adapter.Normalize(raw, facility, month)
			if err != nil {
				slog.Error("availability payload could not be normalized, skipping",
					slog.String("facility", facility.String()),
					slog.String("month", month.Format("2006-01")),
					slog.String("error", err.Error()))
				continue months
			}
			records = append(records, sites...)
		}
	}
	return records, nil
}

// filterCampsiteIDs keeps only the listed campsites. An empty filter keeps
// everything.
func filterCampsiteIDs(records []entity.AvailableCampsite, ids []string) []entity.AvailableCampsite {
	if len(ids) == 0 {
		return records
	}
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	filtered := records[:0]
	for _, r := range records {
		if keep[r.CampsiteID] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// logAvailability summarizes a completed search: matches per facility, or a
// single line when nothing matched.
func logAvailability(results []entity.AvailableCampsite, session SearchSession) {
	if len(results) == 0 {
		slog.Info("no campsites matching search preferences",
			slog.Int("campgrounds", len(session.Campgrounds)),
			slog.Int("search_days", session.Nights()))
		return
	}
	perFacility := make(map[string]int)
	for _, r := range results {
		perFacility[r.FacilityName] = perFacility[r.FacilityName] + 1
	}
	slog.Info("campsites found matching search preferences",
		slog.Int("total", len(results)),
		slog.Int("campgrounds_matched", len(perFacility)))
	for name, count := range perFacility {
		slog.Info("campground availability",
			slog.String("campground", name),
			slog.Int("campsites", count))
	}
}
