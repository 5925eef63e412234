package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campwatch/internal/domain/entity"
)

type stubAdapter struct{ name string }

func (s *stubAdapter) Name() string { return s.name }
func (s *stubAdapter) FindRecreationAreas(ctx context.Context, query string) ([]entity.RecreationArea, error) {
	return nil, nil
}
func (s *stubAdapter) FindCampgrounds(ctx context.Context, criteria CampgroundCriteria) ([]entity.CampgroundFacility, error) {
	return nil, nil
}
func (s *stubAdapter) FetchMonthAvailability(ctx context.Context, facilityID string, month time.Time) (RawAvailability, error) {
	return nil, nil
}
func (s *stubAdapter) Normalize(raw RawAvailability, facility entity.CampgroundFacility, month time.Time) ([]entity.AvailableCampsite, error) {
	return nil, nil
}

func TestCampgroundCriteria_Validate(t *testing.T) {
	cases := []struct {
		name     string
		criteria CampgroundCriteria
		wantErr  error
	}{
		{"campground ids", CampgroundCriteria{CampgroundIDs: []string{"233116"}}, nil},
		{"query", CampgroundCriteria{Query: "yosemite"}, nil},
		{"rec areas", CampgroundCriteria{RecreationAreaIDs: []string{"2991"}}, nil},
		{"none", CampgroundCriteria{}, entity.ErrNoSearchTargets},
		{"two selectors", CampgroundCriteria{Query: "yosemite", CampgroundIDs: []string{"1"}}, entity.ErrInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.criteria.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubAdapter{name: "RecreationDotGov"})
	reg.Register(&stubAdapter{name: "ReserveCalifornia"})

	adapter, err := reg.Lookup("RecreationDotGov")
	require.NoError(t, err)
	assert.Equal(t, "RecreationDotGov", adapter.Name())

	_, err = reg.Lookup("Yellowstone")
	assert.Error(t, err)

	assert.Equal(t, []string{"RecreationDotGov", "ReserveCalifornia"}, reg.Names())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubAdapter{name: "RecreationDotGov"})
	assert.Panics(t, func() {
		reg.Register(&stubAdapter{name: "RecreationDotGov"})
	})
}

func TestIsNotFound(t *testing.T) {
	err := &NotFoundError{Resource: "facility", ID: "232447"}
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.Contains(t, err.Error(), "232447")
	assert.False(t, IsNotFound(ErrSearch))
}
