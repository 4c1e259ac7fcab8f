package core

import (
	"testing"
	"time"

	"github.com/gridsight/gridsight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampDataset(n int) *schema.Dataset {
	vals := make([]float64, n)
	times := make([]time.Time, n)
	start := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		vals[i] = float64(i)
		times[i] = start.Add(time.Duration(i) * time.Hour)
	}
	ds := makeDataset(map[string][]float64{schema.ColGenerationMW: vals})
	ds.Times = times
	return ds
}

func TestSampleIdentityUnderCap(t *testing.T) {
	ds := rampDataset(100)
	assert.Same(t, ds, Sample(ds, 100))
	assert.Same(t, ds, Sample(ds, 5000))
	assert.Same(t, ds, Sample(ds, 0))
}

func TestSampleRespectsCap(t *testing.T) {
	ds := rampDataset(12345)
	out := Sample(ds, 1000)
	assert.LessOrEqual(t, out.RowCount(), 1000)
	assert.Greater(t, out.RowCount(), 0)
}

func TestSamplePreservesEndpoints(t *testing.T) {
	ds := rampDataset(12345)
	out := Sample(ds, 1000)

	vals := out.Column(schema.ColGenerationMW)
	require.NotEmpty(t, vals)
	assert.Equal(t, 0.0, vals[0])
	assert.Equal(t, float64(12344), vals[len(vals)-1])
	assert.Equal(t, ds.Times[0], out.Times[0])
	assert.Equal(t, ds.Times[len(ds.Times)-1], out.Times[len(out.Times)-1])
}

func TestSampleDeterministic(t *testing.T) {
	ds := rampDataset(9999)
	a := Sample(ds, 500)
	b := Sample(ds, 500)
	assert.Equal(t, a.Column(schema.ColGenerationMW), b.Column(schema.ColGenerationMW))
}

func TestSampleMonotoneOrderPreserved(t *testing.T) {
	ds := rampDataset(5000)
	out := Sample(ds, 321)
	vals := out.Column(schema.ColGenerationMW)
	for i := 1; i < len(vals); i++ {
		assert.Greater(t, vals[i], vals[i-1])
	}
}

func TestSampleLargeScatterPayload(t *testing.T) {
	// 200k rows against a ghi-hour style cap of 5000*2.
	ds := rampDataset(200000)
	out := Sample(ds, 10000)

	assert.LessOrEqual(t, out.RowCount(), 10000)
	vals := out.Column(schema.ColGenerationMW)
	assert.Equal(t, 0.0, vals[0])
	assert.Equal(t, float64(199999), vals[len(vals)-1])
}
