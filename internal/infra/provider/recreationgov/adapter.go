// Package recreationgov implements the provider adapter for Recreation.gov,
// covering federal campgrounds across the US. Metadata (recreation areas,
// facilities, campsites) comes from the RIDB API; per-month availability
// grids come from the www.recreation.gov booking API.
package recreationgov

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"campwatch/internal/domain/entity"
	"campwatch/internal/provider"
	"campwatch/internal/resilience/retry"
)

// Name is the registry name of this provider.
const Name = "recreationgov"

const (
	campgroundTypeQualifier = "Campground"
	bookingURLBase          = "https://www.recreation.gov/camping/campsites"

	// availabilityKeyFormat is the per-date key format inside the
	// availability grid.
	availabilityKeyFormat = "2006-01-02T15:04:05Z"

	ridbPageLimit = 50
)

// unavailableStatuses are grid statuses that do not represent a bookable
// night. Everything else ("Available", and whatever new statuses the
// upstream invents for bookable nights) passes through.
var unavailableStatuses = map[string]bool{
	"Reserved":                  true,
	"Not Available":             true,
	"Not Reservable":            true,
	"Not Reservable Management": true,
	"Not Available Cutoff":      true,
	"Lottery":                   true,
	"Open":                      true,
	"NYR":                       true,
	"Closed":                    true,
}

// Adapter implements provider.Adapter for Recreation.gov.
type Adapter struct {
	client *Client
}

// New builds the adapter. The RIDB API key is validated eagerly so a
// missing key fails at startup rather than on the first search.
func New(cfg ClientConfig) (*Adapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: RIDB API key is not set", entity.ErrInvalidInput)
	}
	return &Adapter{client: NewClient(cfg)}, nil
}

// Name implements provider.Adapter.
func (a *Adapter) Name() string { return Name }

// FindRecreationAreas searches RIDB for recreation areas matching the query.
func (a *Adapter) FindRecreationAreas(ctx context.Context, query string) ([]entity.RecreationArea, error) {
	params := url.Values{
		"query": []string{query},
		"sort":  []string{"Name"},
		"full":  []string{"true"},
	}
	records, err := a.paginateRIDB(ctx, "/recareas", params)
	if err != nil {
		return nil, err
	}

	areas := make([]entity.RecreationArea, 0, len(records))
	for _, raw := range records {
		var rec recAreaRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode recreation area: %w", err)
		}
		location := ""
		if len(rec.RecAreaAddress) > 0 {
			location = strings.ToUpper(rec.RecAreaAddress[0].AddressStateCode)
		}
		areas = append(areas, entity.RecreationArea{
			ID:         rec.RecAreaID.String(),
			ProviderID: Name,
			Name:       rec.RecAreaName,
			Location:   location,
		})
	}
	return areas, nil
}

// FindCampgrounds resolves the criteria's selector into reservable
// campground facilities.
func (a *Adapter) FindCampgrounds(ctx context.Context, criteria provider.CampgroundCriteria) ([]entity.CampgroundFacility, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	switch {
	case len(criteria.CampgroundIDs) > 0:
		return a.campgroundsByID(ctx, criteria.CampgroundIDs)
	case criteria.Query != "":
		return a.campgroundsBySearch(ctx, criteria.Query)
	default:
		return a.campgroundsByRecArea(ctx, criteria.RecreationAreaIDs)
	}
}

// campgroundsByID resolves each requested facility. A missing or
// non-campground ID is logged and skipped so the remaining targets still
// get searched; not-found is surfaced only when nothing resolved.
func (a *Adapter) campgroundsByID(ctx context.Context, ids []string) ([]entity.CampgroundFacility, error) {
	facilities := make([]entity.CampgroundFacility, 0, len(ids))
	var missing *provider.NotFoundError
	for _, id := range ids {
		body, err := a.client.getRIDB(ctx, "/facilities/"+url.PathEscape(id), url.Values{"full": []string{"true"}})
		if err != nil {
			if isHTTPNotFound(err) {
				missing = &provider.NotFoundError{Resource: "campground", ID: id}
				slog.Warn("campground not found upstream, skipping", slog.String("facility_id", id))
				continue
			}
			return nil, err
		}
		var rec facilityRecord
		if err := json.Unmarshal(body, &rec); err != nil {
			return nil, fmt.Errorf("decode facility %s: %w", id, err)
		}
		facility, ok := toCampground(rec)
		if !ok {
			missing = &provider.NotFoundError{Resource: "campground", ID: id}
			slog.Warn("facility is not a reservable campground, skipping", slog.String("facility_id", id))
			continue
		}
		facilities = append(facilities, facility)
	}
	if len(facilities) == 0 && missing != nil {
		return nil, missing
	}
	return facilities, nil
}

func (a *Adapter) campgroundsBySearch(ctx context.Context, query string) ([]entity.CampgroundFacility, error) {
	params := url.Values{
		"query": []string{query},
		"full":  []string{"true"},
	}
	records, err := a.paginateRIDB(ctx, "/facilities", params)
	if err != nil {
		return nil, err
	}
	return decodeCampgrounds(records)
}

// campgroundsByRecArea collects the campgrounds of each recreation area.
// Like campgroundsByID, a missing area does not abort the remaining areas.
func (a *Adapter) campgroundsByRecArea(ctx context.Context, recAreaIDs []string) ([]entity.CampgroundFacility, error) {
	var facilities []entity.CampgroundFacility
	var missing *provider.NotFoundError
	for _, id := range recAreaIDs {
		path := "/recareas/" + url.PathEscape(id) + "/facilities"
		records, err := a.paginateRIDB(ctx, path, url.Values{"full": []string{"true"}})
		if err != nil {
			if isHTTPNotFound(err) {
				missing = &provider.NotFoundError{Resource: "recreation area", ID: id}
				slog.Warn("recreation area not found upstream, skipping", slog.String("rec_area_id", id))
				continue
			}
			return nil, err
		}
		decoded, err := decodeCampgrounds(records)
		if err != nil {
			return nil, err
		}
		facilities = append(facilities, decoded...)
	}
	if len(facilities) == 0 && missing != nil {
		return nil, missing
	}
	return facilities, nil
}

// paginateRIDB drives the shared offset pagination loop over one RIDB
// listing endpoint, returning the raw records of every page.
func (a *Adapter) paginateRIDB(ctx context.Context, path string, params url.Values) ([]json.RawMessage, error) {
	var records []json.RawMessage
	params.Set("limit", strconv.Itoa(ridbPageLimit))

	err := provider.Paginate(ctx, slog.Default(), func(ctx context.Context, offset int) (int, int, error) {
		params.Set("offset", strconv.Itoa(offset))
		body, err := a.client.getRIDB(ctx, path, params)
		if err != nil {
			return 0, 0, err
		}
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return 0, 0, fmt.Errorf("decode RIDB envelope: %w", err)
		}
		var page []json.RawMessage
		if err := json.Unmarshal(env.RecData, &page); err != nil {
			return 0, 0, fmt.Errorf("decode RIDB records: %w", err)
		}
		records = append(records, page...)
		return len(page), env.Metadata.Results.TotalCount, nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func decodeCampgrounds(records []json.RawMessage) ([]entity.CampgroundFacility, error) {
	facilities := make([]entity.CampgroundFacility, 0, len(records))
	for _, raw := range records {
		var rec facilityRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode facility: %w", err)
		}
		if facility, ok := toCampground(rec); ok {
			facilities = append(facilities, facility)
		}
	}
	return facilities, nil
}

// toCampground filters a facility record to actually reservable campgrounds
// and maps it to the canonical type. The recreation-area name falls back to
// the managing organization when the facility sits outside any rec area.
func toCampground(rec facilityRecord) (entity.CampgroundFacility, bool) {
	if rec.FacilityTypeDescription != campgroundTypeQualifier || !rec.Enabled || !rec.Reservable {
		return entity.CampgroundFacility{}, false
	}

	state := "USA"
	if len(rec.FacilityAddress) > 0 && rec.FacilityAddress[0].AddressStateCode != "" {
		state = strings.ToUpper(rec.FacilityAddress[0].AddressStateCode)
	}

	recAreaName := ""
	recAreaID := rec.ParentRecAreaID.String()
	switch {
	case len(rec.RecArea) > 0:
		recAreaName = fmt.Sprintf("%s, %s", rec.RecArea[0].RecAreaName, state)
		recAreaID = rec.RecArea[0].RecAreaID.String()
	case len(rec.Organization) > 0:
		recAreaName = fmt.Sprintf("%s, %s", rec.Organization[0].OrgName, state)
	default:
		recAreaName = state
	}

	return entity.CampgroundFacility{
		FacilityID:         rec.FacilityID.String(),
		RecreationAreaID:   recAreaID,
		FacilityName:       rec.FacilityName,
		RecreationAreaName: recAreaName,
	}, true
}

// FetchMonthAvailability retrieves the raw availability grid for one
// facility and month.
func (a *Adapter) FetchMonthAvailability(ctx context.Context, facilityID string, month time.Time) (provider.RawAvailability, error) {
	body, err := a.client.getAvailability(ctx, facilityID, month)
	if err != nil {
		if isHTTPNotFound(err) {
			return nil, &provider.NotFoundError{Resource: "campground availability", ID: facilityID}
		}
		return nil, err
	}
	return body, nil
}

// Normalize parses an availability grid into single-night records, keeping
// only bookable statuses.
func (a *Adapter) Normalize(raw provider.RawAvailability, facility entity.CampgroundFacility, month time.Time) ([]entity.AvailableCampsite, error) {
	body, ok := raw.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected raw availability payload %T", entity.ErrInvalidInput, raw)
	}
	var grid availabilityResponse
	if err := json.Unmarshal(body, &grid); err != nil {
		return nil, fmt.Errorf("decode availability grid: %w", err)
	}

	var sites []entity.AvailableCampsite
	for campsiteID, campsite := range grid.Campsites {
		for dateKey, status := range campsite.Availabilities {
			if unavailableStatuses[status] {
				continue
			}
			date, err := time.Parse(availabilityKeyFormat, dateKey)
			if err != nil {
				slog.Warn("unparsable availability date, skipping",
					slog.String("campsite", campsiteID),
					slog.String("date", dateKey))
				continue
			}
			night := entity.Midnight(date)
			sites = append(sites, entity.AvailableCampsite{
				CampsiteID:         campsiteID,
				BookingDate:        night,
				BookingEndDate:     night.AddDate(0, 0, 1),
				BookingNights:      1,
				SiteName:           campsite.Site,
				LoopName:           campsite.Loop,
				CampsiteType:       campsite.CampsiteType,
				Occupancy:          entity.Occupancy{Min: campsite.MinNumPeople, Max: campsite.MaxNumPeople},
				UseType:            campsite.TypeOfUse,
				AvailabilityStatus: status,
				RecreationArea:     facility.RecreationAreaName,
				RecreationAreaID:   facility.RecreationAreaID,
				FacilityName:       facility.FacilityName,
				FacilityID:         facility.FacilityID,
				BookingURL:         bookingURLBase + "/" + campsiteID,
			})
		}
	}
	return sites, nil
}

// FilterByEquipment implements provider.EquipmentFilterer. A campsite
// passes when it permits any of the requested equipment; campsites without
// equipment data are kept since absence of data is not a refusal.
func (a *Adapter) FilterByEquipment(campsites []entity.AvailableCampsite, equipment []entity.Equipment) []entity.AvailableCampsite {
	if len(equipment) == 0 {
		return campsites
	}
	filtered := make([]entity.AvailableCampsite, 0, len(campsites))
	for _, site := range campsites {
		if len(site.PermittedEquipment) == 0 || permitsAny(site.PermittedEquipment, equipment) {
			filtered = append(filtered, site)
		}
	}
	return filtered
}

func permitsAny(permitted []entity.Equipment, wanted []entity.Equipment) bool {
	for _, w := range wanted {
		for _, p := range permitted {
			if strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(w.Name)) {
				return true
			}
		}
	}
	return false
}

func isHTTPNotFound(err error) bool {
	var httpErr *retry.HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == 404
}
