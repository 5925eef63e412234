package entity

import (
	"fmt"
	"time"
)

// Occupancy is the (min, max) number of occupants a campsite supports.
type Occupancy struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Equipment describes one kind of equipment permitted at a campsite,
// e.g. {"Tent", 1} or {"RV", 2}.
type Equipment struct {
	Name     string `json:"name"`
	MaxCount int    `json:"max_count"`
}

// Attribute is a free-form campsite attribute reported by a provider,
// e.g. {"Campfire Allowed", "Yes"}.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AvailableCampsite is the canonical availability record. Providers emit raw
// records with BookingNights == 1; the consolidator may merge them into
// multi-night blocks. Records are immutable value objects: once constructed
// they are only filtered or merged into new records, never mutated.
type AvailableCampsite struct {
	CampsiteID         string      `json:"campsite_id"`
	BookingDate        time.Time   `json:"booking_date"`
	BookingEndDate     time.Time   `json:"booking_end_date"`
	BookingNights      int         `json:"booking_nights"`
	SiteName           string      `json:"site_name"`
	LoopName           string      `json:"loop_name"`
	CampsiteType       string      `json:"campsite_type"`
	Occupancy          Occupancy   `json:"occupancy"`
	UseType            string      `json:"use_type"`
	AvailabilityStatus string      `json:"availability_status"`
	RecreationArea     string      `json:"recreation_area"`
	RecreationAreaID   string      `json:"recreation_area_id"`
	FacilityName       string      `json:"facility_name"`
	FacilityID         string      `json:"facility_id"`
	BookingURL         string      `json:"booking_url"`
	PermittedEquipment []Equipment `json:"permitted_equipment,omitempty"`
	Attributes         []Attribute `json:"attributes,omitempty"`
}

// CampsiteIdentity is the deduplication key for availability records.
// Two records with the same identity describe the same bookable window and
// must never be notified about twice.
type CampsiteIdentity struct {
	CampsiteID    string    `json:"campsite_id"`
	BookingDate   time.Time `json:"booking_date"`
	BookingNights int       `json:"booking_nights"`
}

// Identity returns the record's deduplication key.
func (c AvailableCampsite) Identity() CampsiteIdentity {
	return CampsiteIdentity{
		CampsiteID:    c.CampsiteID,
		BookingDate:   Midnight(c.BookingDate),
		BookingNights: c.BookingNights,
	}
}

// Validate checks the booking-window invariant: the end date must equal the
// booking date plus the number of nights.
func (c AvailableCampsite) Validate() error {
	if c.CampsiteID == "" {
		return &ValidationError{Field: "campsite_id", Message: "must not be empty"}
	}
	if c.BookingNights < 1 {
		return &ValidationError{Field: "booking_nights", Message: "must be at least 1"}
	}
	want := Midnight(c.BookingDate).AddDate(0, 0, c.BookingNights)
	if !Midnight(c.BookingEndDate).Equal(want) {
		return &ValidationError{
			Field: "booking_end_date",
			Message: fmt.Sprintf("expected %s (%d nights from %s), got %s",
				want.Format(DateLayout), c.BookingNights,
				Midnight(c.BookingDate).Format(DateLayout),
				Midnight(c.BookingEndDate).Format(DateLayout)),
		}
	}
	return nil
}

// Nights returns every night covered by the record, truncated to midnight.
// A 3-night block starting July 1 covers July 1, 2 and 3.
func (c AvailableCampsite) Nights() []time.Time {
	nights := make([]time.Time, 0, c.BookingNights)
	start := Midnight(c.BookingDate)
	for i := 0; i < c.BookingNights; i++ {
		nights = append(nights, start.AddDate(0, 0, i))
	}
	return nights
}

// String renders the record as a one-line booking summary.
func (c AvailableCampsite) String() string {
	return fmt.Sprintf("%s - %s | %s | %s | %s",
		Midnight(c.BookingDate).Format(DateLayout),
		Midnight(c.BookingEndDate).Format(DateLayout),
		c.SiteName, c.FacilityName, c.RecreationArea)
}
