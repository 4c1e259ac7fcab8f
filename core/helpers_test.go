package core

import (
	"sort"

	"github.com/gridsight/gridsight/schema"
)

// makeDataset builds an in-memory dataset with sorted column order so tests
// are deterministic. All columns must share the same length.
func makeDataset(cols map[string][]float64) *schema.Dataset {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)
	return &schema.Dataset{
		Site:     "test_site",
		Category: schema.Generation,
		Scope:    schema.HistoricalHourly,
		Columns:  names,
		Values:   cols,
	}
}

// hourlySeries builds n rows of year/hour/generation columns for one year,
// with generation ramping linearly from base.
func hourlySeries(year, n int, base float64) map[string][]float64 {
	years := make([]float64, n)
	hours := make([]float64, n)
	gen := make([]float64, n)
	for i := 0; i < n; i++ {
		years[i] = float64(year)
		hours[i] = float64(i % 24)
		gen[i] = base + float64(i)*0.001
	}
	return map[string][]float64{
		schema.ColYear:         years,
		schema.ColHour:         hours,
		schema.ColGenerationMW: gen,
	}
}

// appendSeries concatenates b's columns onto a in place. Both maps must have
// the same column set.
func appendSeries(a, b map[string][]float64) map[string][]float64 {
	for col, vals := range b {
		a[col] = append(a[col], vals...)
	}
	return a
}
