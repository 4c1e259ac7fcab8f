package core

import (
	"testing"

	"github.com/gridsight/gridsight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoricalAverageByHour(t *testing.T) {
	ds := makeDataset(map[string][]float64{
		schema.ColHour:         {0, 1, 0, 1, 0},
		schema.ColGenerationMW: {2, 10, 4, 20, 6},
	})

	out := HistoricalAverage(ds, schema.ColGenerationMW, ByHour)
	require.Equal(t, 2, out.RowCount())
	assert.Equal(t, []float64{0, 1}, out.Column(schema.ColHour))
	assert.Equal(t, []float64{4, 15}, out.Column(schema.ColHistoricalAvg))
}

func TestHistoricalAverageByMonthDay(t *testing.T) {
	ds := makeDataset(map[string][]float64{
		schema.ColMonth:        {1, 1, 2},
		schema.ColDay:          {15, 15, 3},
		schema.ColGenerationMW: {10, 30, 7},
	})

	out := HistoricalAverage(ds, schema.ColGenerationMW, ByMonthDay)
	require.Equal(t, 2, out.RowCount())
	assert.Equal(t, []float64{1, 2}, out.Column(schema.ColMonth))
	assert.Equal(t, []float64{15, 3}, out.Column(schema.ColDay))
	assert.Equal(t, []float64{20, 7}, out.Column(schema.ColHistoricalAvg))
}

func TestHistoricalAverageMissingValueColumn(t *testing.T) {
	ds := makeDataset(map[string][]float64{schema.ColHour: {0, 1}})
	out := HistoricalAverage(ds, schema.ColGenerationMW, ByHour)
	assert.Equal(t, 0, out.RowCount())
}

func TestDurationCurveSortsDescendingWithExceedance(t *testing.T) {
	ds := makeDataset(map[string][]float64{
		"price_da": {10, 50, 30, 20},
	})

	out := DurationCurve(ds, "price_da")
	assert.Equal(t, []float64{50, 30, 20, 10}, out.Column("price_da"))
	assert.Equal(t, []float64{25, 50, 75, 100}, out.Column(schema.ColExceedancePct))
}

func TestDurationCurveStableOnTies(t *testing.T) {
	ds := makeDataset(map[string][]float64{
		"price_da":     {30, 30, 30},
		schema.ColHour: {0, 1, 2},
	})

	out := DurationCurve(ds, "price_da")
	assert.Equal(t, []float64{0, 1, 2}, out.Column(schema.ColHour))
}

func TestDurationCurveEmptyInput(t *testing.T) {
	ds := makeDataset(map[string][]float64{"price_da": {}})
	out := DurationCurve(ds, "price_da")
	assert.Equal(t, 0, out.RowCount())
}
