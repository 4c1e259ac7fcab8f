package core

import (
	"math"

	"github.com/gridsight/gridsight/schema"
)

// Sample reduces a dataset to at most maxPoints rows. Datasets at or under
// the cap come back unchanged, so small datasets never acquire sampling
// artifacts. Larger ones are thinned by selecting every stride-th row with
// stride = ceil(rows / maxPoints): the selection is deterministic, repeated
// calls are reproducible, and the full time range stays represented because
// the first and last rows are always kept.
func Sample(ds *schema.Dataset, maxPoints int) *schema.Dataset {
	rows := ds.RowCount()
	if maxPoints <= 0 || rows <= maxPoints {
		return ds
	}

	stride := int(math.Ceil(float64(rows) / float64(maxPoints)))
	selected := make([]int, 0, rows/stride+1)
	for i := 0; i < rows; i += stride {
		selected = append(selected, i)
	}
	// Pin the last row so the range is never truncated.
	if last := selected[len(selected)-1]; last != rows-1 {
		if len(selected) < maxPoints {
			selected = append(selected, rows-1)
		} else {
			selected[len(selected)-1] = rows - 1
		}
	}
	return ds.Select(selected)
}
