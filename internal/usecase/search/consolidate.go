package search

import (
	"sort"
	"time"

	"campwatch/internal/domain/entity"
)

// Consolidate merges raw single-night availability records into bookable
// blocks honoring a minimum-nights requirement, then filters the result to
// the requested search days.
//
// The steps are:
//  1. Deduplicate by (campsite, booking date), first-seen wins. Adjacent
//     months are queried with overlapping boundaries, so duplicates are
//     expected and all other fields are assumed consistent for a date.
//  2. Group by campsite and find maximal runs of calendar-consecutive days.
//  3. With nights <= 1, emit every night unchanged. With nights > 1, emit
//     one record spanning each entire run of at least that length; shorter
//     runs are dropped.
//  4. Keep only records with at least one night in the search-day set.
//
// The result is sorted by booking date, then facility and campsite ID, so
// identical inputs always produce identical output.
func Consolidate(records []entity.AvailableCampsite, nights int, searchDays []time.Time) []entity.AvailableCampsite {
	type nightKey struct {
		facilityID string
		campsiteID string
		date       time.Time
	}
	type siteKey struct {
		facilityID string
		campsiteID string
	}

	seen := make(map[nightKey]bool, len(records))
	groups := make(map[siteKey][]entity.AvailableCampsite)
	var groupOrder []siteKey

	for _, rec := range records {
		nk := nightKey{rec.FacilityID, rec.CampsiteID, entity.Midnight(rec.BookingDate)}
		if seen[nk] {
			continue
		}
		seen[nk] = true

		sk := siteKey{rec.FacilityID, rec.CampsiteID}
		if _, ok := groups[sk]; !ok {
			groupOrder = append(groupOrder, sk)
		}
		groups[sk] = append(groups[sk], rec)
	}

	daySet := make(map[time.Time]bool, len(searchDays))
	for _, day := range searchDays {
		daySet[entity.Midnight(day)] = true
	}

	var out []entity.AvailableCampsite
	for _, sk := range groupOrder {
		group := groups[sk]
		sort.Slice(group, func(i, j int) bool {
			return group[i].BookingDate.Before(group[j].BookingDate)
		})
		for _, run := range consecutiveRuns(group) {
			for _, block := range blocksFromRun(run, nights) {
				if touchesSearchDays(block, daySet) {
					out = append(out, block)
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(out[j].BookingDate) {
			return out[i].BookingDate.Before(out[j].BookingDate)
		}
		if out[i].FacilityID != out[j].FacilityID {
			return out[i].FacilityID < out[j].FacilityID
		}
		return out[i].CampsiteID < out[j].CampsiteID
	})
	return out
}

// consecutiveRuns splits a date-sorted group of single-night records into
// maximal runs where each entry is exactly one day after the previous.
func consecutiveRuns(group []entity.AvailableCampsite) [][]entity.AvailableCampsite {
	var runs [][]entity.AvailableCampsite
	var current []entity.AvailableCampsite
	var prev time.Time

	for i, rec := range group {
		date := entity.Midnight(rec.BookingDate)
		if i > 0 && date.Sub(prev) != 24*time.Hour {
			runs = append(runs, current)
			current = nil
		}
		current = append(current, rec)
		prev = date
	}
	if len(current) > 0 {
		runs = append(runs, current)
	}
	return runs
}

// blocksFromRun turns one maximal consecutive run into output records.
// nights <= 1 keeps each night as its own record; otherwise a run of
// length >= nights collapses into a single record covering the whole run.
func blocksFromRun(run []entity.AvailableCampsite, nights int) []entity.AvailableCampsite {
	if nights <= 1 {
		return run
	}
	if len(run) < nights {
		return nil
	}
	block := run[0]
	block.BookingDate = entity.Midnight(run[0].BookingDate)
	block.BookingNights = len(run)
	block.BookingEndDate = block.BookingDate.AddDate(0, 0, len(run))
	return []entity.AvailableCampsite{block}
}

// touchesSearchDays reports whether any night of the record falls on a
// requested search day. Nights outside the window that only exist because
// they extended a consecutive run do not keep a record alive on their own.
func touchesSearchDays(rec entity.AvailableCampsite, daySet map[time.Time]bool) bool {
	for _, night := range rec.Nights() {
		if daySet[night] {
			return true
		}
	}
	return false
}
