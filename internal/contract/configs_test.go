package contract

import (
	"testing"
	"time"

	"github.com/gridsight/gridsight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	input := &ConfigRawInput{DataRootStr: t.TempDir()}

	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, DefaultMaxDataPoints, cfg.MaxDataPoints)
	assert.Equal(t, DefaultCacheTTLSeconds*time.Second, cfg.CacheTTL)
	assert.Equal(t, DefaultCacheCapacity, cfg.CacheCapacity)
	assert.Equal(t, DefaultLoadWaitBudget, cfg.LoadWaitBudget)
	assert.Equal(t, DefaultMinGenerationMW, cfg.MinGenerationMW)
	assert.Equal(t, DefaultMinHoursPerYear, cfg.MinHoursPerYear)
	assert.Equal(t, TextOut, cfg.Output)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)

	// Lookbacks fall back to the per-plot policy defaults.
	assert.Equal(t, 10, cfg.LookbackYears(schema.GHIHour))
	assert.Equal(t, 5, cfg.LookbackYears(schema.GHITemperature))
}

func TestProcessAndValidateMissingRoot(t *testing.T) {
	cfg := &Config{}
	input := &ConfigRawInput{DataRootStr: "/nonexistent/portfolio"}

	err := ProcessAndValidate(cfg, input)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrNotFound)
}

func TestProcessAndValidateOverrides(t *testing.T) {
	cfg := &Config{}
	input := &ConfigRawInput{
		DataRootStr:     t.TempDir(),
		MaxDataPoints:   1000,
		CacheTimeout:    60,
		LoadWaitBudget:  "500ms",
		MinGenerationMW: 0.1,
		LookbackGHIHour: 3,
		Output:          "json",
	}

	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, 1000, cfg.MaxDataPoints)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.LoadWaitBudget)
	assert.Equal(t, 0.1, cfg.MinGenerationMW)
	assert.Equal(t, 3, cfg.LookbackYears(schema.GHIHour))
	assert.Equal(t, JSONOut, cfg.Output)
}

func TestProcessAndValidateRejectsBadInput(t *testing.T) {
	root := t.TempDir()

	cases := []struct {
		name  string
		input ConfigRawInput
	}{
		{"excessive max points", ConfigRawInput{DataRootStr: root, MaxDataPoints: MaxDataPointsCeiling + 1}},
		{"bad wait budget", ConfigRawInput{DataRootStr: root, LoadWaitBudget: "sometime"}},
		{"negative threshold", ConfigRawInput{DataRootStr: root, MinGenerationMW: -1}},
		{"negative lookback", ConfigRawInput{DataRootStr: root, LookbackGHIHour: -2}},
		{"unknown output", ConfigRawInput{DataRootStr: root, Output: "xml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, ProcessAndValidate(&Config{}, &tc.input))
		})
	}
}

func TestEffectiveCap(t *testing.T) {
	cfg := &Config{MaxDataPoints: 5000}
	assert.Equal(t, 10000, cfg.EffectiveCap(schema.GHIHour))
	assert.Equal(t, 5000, cfg.EffectiveCap(schema.GenerationTimeseries))
}

func TestClone(t *testing.T) {
	cfg := &Config{MaxDataPoints: 5000, Lookbacks: map[schema.PlotKind]int{schema.GHIHour: 10}}
	clone := cfg.Clone()
	clone.Lookbacks[schema.GHIHour] = 1
	assert.Equal(t, 10, cfg.Lookbacks[schema.GHIHour])
}
