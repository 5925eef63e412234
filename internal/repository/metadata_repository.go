// Package repository defines persistence interfaces for the optional
// campground metadata index. The index is a write-through cache of provider
// lookups: campground and recreation-area resolution is slow and heavily
// rate limited upstream, so resolved metadata is kept locally for offline
// listing and faster repeat searches. The search path itself never requires
// the index.
package repository

import (
	"context"

	"campwatch/internal/domain/entity"
)

// MetadataRepository stores provider metadata resolved during searches.
type MetadataRepository interface {
	// UpsertRecreationAreas inserts or refreshes recreation areas by
	// (provider, id).
	UpsertRecreationAreas(ctx context.Context, areas []entity.RecreationArea) error

	// UpsertCampgrounds inserts or refreshes campground facilities by
	// (provider, facility id).
	UpsertCampgrounds(ctx context.Context, provider string, facilities []entity.CampgroundFacility) error

	// ListCampgrounds returns every cached campground for a provider,
	// ordered by facility ID.
	ListCampgrounds(ctx context.Context, provider string) ([]entity.CampgroundFacility, error)

	// SearchCampgrounds returns cached campgrounds whose name or
	// recreation area matches the keyword, case-insensitively.
	SearchCampgrounds(ctx context.Context, provider, keyword string) ([]entity.CampgroundFacility, error)
}
