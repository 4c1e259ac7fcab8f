package core

import "github.com/gridsight/gridsight/schema"

// Comparison selects the predicate rows must satisfy to survive a
// threshold filter.
type Comparison string

const (
	// AtLeast keeps rows where value >= threshold.
	AtLeast Comparison = ">="
	// Above keeps rows where value > threshold.
	Above Comparison = ">"
)

// FilterByThreshold drops rows whose value in the named column fails the
// comparison against min. Near-zero generation readings are sensor noise or
// curtailment artifacts that distort regressions and color scales, so they
// are removed before correlation-style plots.
//
// The filter is idempotent: re-applying the same threshold to an already
// filtered dataset keeps every row. Datasets lacking the column pass
// through unchanged; the validator runs first and reports absences.
func FilterByThreshold(ds *schema.Dataset, column string, min float64, cmp Comparison) *schema.Dataset {
	vals := ds.Column(column)
	if vals == nil {
		return ds
	}
	rows := make([]int, 0, len(vals))
	for i, v := range vals {
		switch cmp {
		case Above:
			if v > min {
				rows = append(rows, i)
			}
		default:
			if v >= min {
				rows = append(rows, i)
			}
		}
	}
	if len(rows) == len(vals) {
		return ds
	}
	return ds.Select(rows)
}
