package core

import (
	"testing"

	"github.com/gridsight/gridsight/schema"
	"github.com/stretchr/testify/assert"
)

func TestCoverageRuleMinFor(t *testing.T) {
	rule := CoverageRule{MinHours: 8760, LeapAware: true}
	assert.Equal(t, 8760, rule.MinFor(2023))
	assert.Equal(t, 8784, rule.MinFor(2024))
	assert.Equal(t, 8760, rule.MinFor(1900)) // century, not leap
	assert.Equal(t, 8784, rule.MinFor(2000)) // quad-century, leap

	flat := CoverageRule{MinHours: 8760}
	assert.Equal(t, 8760, flat.MinFor(2024))
}

func TestCompleteYearsFiltersPartials(t *testing.T) {
	cols := hourlySeries(2021, 100, 1.0)
	appendSeries(cols, hourlySeries(2022, 40, 1.0))
	appendSeries(cols, hourlySeries(2023, 100, 1.0))
	ds := makeDataset(cols)

	rule := CoverageRule{MinHours: 100}
	assert.Equal(t, []int{2021, 2023}, CompleteYears(ds, rule))
}

func TestFilterCompleteYearsKeepsQualifyingRows(t *testing.T) {
	cols := hourlySeries(2021, 50, 1.0)
	appendSeries(cols, hourlySeries(2022, 10, 1.0))
	ds := makeDataset(cols)

	out := FilterCompleteYears(ds, CoverageRule{MinHours: 50}, 0)
	assert.Equal(t, 50, out.RowCount())
	for _, y := range out.Column(schema.ColYear) {
		assert.Equal(t, 2021.0, y)
	}
	// Input untouched.
	assert.Equal(t, 60, ds.RowCount())
}

func TestFilterCompleteYearsLimitsToMostRecent(t *testing.T) {
	cols := hourlySeries(2019, 20, 1.0)
	appendSeries(cols, hourlySeries(2020, 20, 1.0))
	appendSeries(cols, hourlySeries(2021, 20, 1.0))
	ds := makeDataset(cols)

	out := FilterCompleteYears(ds, CoverageRule{MinHours: 20}, 2)
	assert.Equal(t, 40, out.RowCount())
	years := out.Column(schema.ColYear)
	assert.Equal(t, 2020.0, years[0])
	assert.Equal(t, 2021.0, years[len(years)-1])
}

func TestFilterCompleteYearsNoneQualify(t *testing.T) {
	ds := makeDataset(hourlySeries(2023, 10, 1.0))

	out := FilterCompleteYears(ds, CoverageRule{MinHours: 8760}, 0)
	assert.Equal(t, 0, out.RowCount())
	assert.Equal(t, ds.Columns, out.Columns)
}
