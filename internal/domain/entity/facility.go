package entity

import "fmt"

// RecreationArea is a park-like entity grouping one or more campgrounds.
// Reference data only: looked up from a provider, never mutated by the core.
type RecreationArea struct {
	ID         string
	ProviderID string
	Name       string
	Location   string
}

// String renders the recreation area the way it appears in search logs.
func (r RecreationArea) String() string {
	if r.Location == "" {
		return fmt.Sprintf("%s (#%s)", r.Name, r.ID)
	}
	return fmt.Sprintf("%s, %s (#%s)", r.Name, r.Location, r.ID)
}

// CampgroundFacility is one bookable campground. A month of availability is
// always fetched for a single facility.
type CampgroundFacility struct {
	FacilityID         string
	RecreationAreaID   string
	FacilityName       string
	RecreationAreaName string
}

// String renders the facility the way it appears in search logs.
func (f CampgroundFacility) String() string {
	return fmt.Sprintf("%s, %s (#%s)", f.FacilityName, f.RecreationAreaName, f.FacilityID)
}
