package core

import (
	"sort"

	"github.com/gridsight/gridsight/schema"
)

// CoverageRule decides when a calendar year of hourly data counts as
// complete. Partial years bias duration curves and other aggregate plots,
// so they are excluded rather than silently averaged.
type CoverageRule struct {
	// MinHours is the row count a regular year needs to qualify.
	MinHours int
	// LeapAware raises the bar by 24 hours on leap years.
	LeapAware bool
}

// MinFor returns the row threshold for a specific year.
func (r CoverageRule) MinFor(year int) int {
	if r.LeapAware && isLeap(year) {
		return r.MinHours + 24
	}
	return r.MinHours
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// CompleteYears returns the years whose row counts meet the rule, ascending.
func CompleteYears(ds *schema.Dataset, rule CoverageRule) []int {
	years := ds.Column(schema.ColYear)
	if years == nil {
		return nil
	}
	counts := make(map[int]int)
	for _, y := range years {
		counts[int(y)]++
	}
	var complete []int
	for year, n := range counts {
		if n >= rule.MinFor(year) {
			complete = append(complete, year)
		}
	}
	sort.Ints(complete)
	return complete
}

// FilterCompleteYears keeps only rows belonging to complete years, limited
// to the most recent lastN qualifying years when lastN is positive. It fails
// softly: when zero years qualify it returns an empty dataset and lets the
// caller surface a "no complete years" diagnostic.
func FilterCompleteYears(ds *schema.Dataset, rule CoverageRule, lastN int) *schema.Dataset {
	complete := CompleteYears(ds, rule)
	if len(complete) == 0 {
		return ds.Empty()
	}
	if lastN > 0 && len(complete) > lastN {
		complete = complete[len(complete)-lastN:]
	}
	keep := make(map[int]bool, len(complete))
	for _, y := range complete {
		keep[y] = true
	}

	years := ds.Column(schema.ColYear)
	rows := make([]int, 0, len(years))
	for i, y := range years {
		if keep[int(y)] {
			rows = append(rows, i)
		}
	}
	return ds.Select(rows)
}
