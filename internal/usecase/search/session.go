package search

import (
	"time"

	"campwatch/internal/domain/entity"
)

// SearchSession is the expanded target set for one orchestrator run: the
// concrete days and months to query and the campgrounds to query them for.
// It is rebuilt at the start of every search invocation and never shared
// across runs, so a run started today does not search yesterday's dates.
type SearchSession struct {
	SearchDays   []time.Time
	SearchMonths []time.Time
	Campgrounds  []entity.CampgroundFacility
}

// Nights returns the number of selected booking nights.
func (s SearchSession) Nights() int {
	return len(s.SearchDays)
}
