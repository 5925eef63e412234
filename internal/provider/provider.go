// Package provider defines the capability contract every upstream
// reservation-system integration must satisfy, plus a registry mapping
// provider names to implementations. The search core only ever talks to
// upstreams through the Adapter interface; everything provider-specific
// (payload shapes, pagination, pacing, retries) stays behind it.
package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"campwatch/internal/domain/entity"
)

// RawAvailability is an opaque per-facility, per-month availability payload
// as returned by one upstream. Only the adapter that produced it knows its
// shape; the core passes it straight back to Normalize.
type RawAvailability any

// CampgroundCriteria selects the campgrounds a search targets. Exactly one
// selector must be populated.
type CampgroundCriteria struct {
	// CampgroundIDs selects facilities by explicit ID.
	CampgroundIDs []string

	// Query selects facilities by free-text search.
	Query string

	// RecreationAreaIDs selects every facility belonging to the given
	// recreation areas.
	RecreationAreaIDs []string
}

// Validate enforces the exactly-one-selector rule.
func (c CampgroundCriteria) Validate() error {
	populated := 0
	if len(c.CampgroundIDs) > 0 {
		populated++
	}
	if c.Query != "" {
		populated++
	}
	if len(c.RecreationAreaIDs) > 0 {
		populated++
	}
	switch populated {
	case 0:
		return entity.ErrNoSearchTargets
	case 1:
		return nil
	default:
		return fmt.Errorf("%w: campground IDs, query, and recreation-area IDs are mutually exclusive",
			entity.ErrInvalidInput)
	}
}

// Adapter is the integration contract for one upstream reservation system.
//
// Implementations own everything specific to their upstream: request pacing
// against the upstream host, pagination of listing endpoints, retry/backoff
// of transient failures, and the mapping from the upstream's wire format to
// the canonical entity types. Normalize must emit single-night records only
// (BookingNights == 1) and must already exclude reserved/blocked/
// not-reservable statuses.
type Adapter interface {
	// Name returns the adapter identity used in logging and notifications.
	Name() string

	// FindRecreationAreas searches the upstream for recreation areas
	// matching a free-text query.
	FindRecreationAreas(ctx context.Context, query string) ([]entity.RecreationArea, error)

	// FindCampgrounds resolves the facilities selected by the criteria.
	FindCampgrounds(ctx context.Context, criteria CampgroundCriteria) ([]entity.CampgroundFacility, error)

	// FetchMonthAvailability retrieves the raw availability payload for one
	// facility and one calendar month. month must be a month-start date.
	FetchMonthAvailability(ctx context.Context, facilityID string, month time.Time) (RawAvailability, error)

	// Normalize converts a raw payload into single-night availability
	// records, filtered to actually-available statuses.
	Normalize(raw RawAvailability, facility entity.CampgroundFacility, month time.Time) ([]entity.AvailableCampsite, error)
}

// EquipmentFilterer is an optional adapter capability. Adapters that know
// campsite-level permitted equipment implement it so searches can restrict
// results to sites supporting the caller's equipment.
type EquipmentFilterer interface {
	FilterByEquipment(campsites []entity.AvailableCampsite, equipment []entity.Equipment) []entity.AvailableCampsite
}

// Registry maps provider names to adapters. The zero value is usable.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry returns an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its own name. Registering a second adapter
// with the same name is a programming error and panics.
func (r *Registry) Register(adapter Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.adapters == nil {
		r.adapters = make(map[string]Adapter)
	}
	name := adapter.Name()
	if _, dup := r.adapters[name]; dup {
		panic(fmt.Sprintf("provider: adapter %q registered twice", name))
	}
	r.adapters[name] = adapter
}

// Lookup returns the adapter registered under name.
func (r *Registry) Lookup(name string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (available: %v)", name, r.names())
	}
	return adapter, nil
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
