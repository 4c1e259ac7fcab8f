// Package contract holds the validated runtime configuration and the shared
// interfaces between the command layer and the pipeline components.
package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gridsight/gridsight/schema"
)

// Default values for configuration.
const (
	DefaultMaxDataPoints   = 5000
	DefaultCacheTTLSeconds = 300
	DefaultCacheCapacity   = 64
	DefaultLoadWaitBudget  = 2 * time.Second
	DefaultMinGenerationMW = 0.01
	DefaultMinHoursPerYear = 8760
	DefaultSweepInterval   = time.Minute
	DefaultListenAddr      = ":8080"
	DefaultPrecision       = 2
	MaxDataPointsCeiling   = 200000
)

// OutputMode selects the CLI output format.
type OutputMode string

const (
	TextOut OutputMode = "text"
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// Config holds the final, validated runtime configuration. It is threaded
// explicitly into the pipeline components; nothing reads ambient globals.
type Config struct {
	DataRoot string // Absolute path to the portfolio data tree

	MaxDataPoints  int           // Base sampling cap before per-plot multipliers
	CacheTTL       time.Duration // Result cache time-to-live
	CacheCapacity  int           // Result cache entry bound (LRU past this)
	LoadWaitBudget time.Duration // Bounded wait before stale-if-available reads
	SweepInterval  time.Duration // Period of the expired-entry sweep

	MinGenerationMW float64 // Threshold below which generation rows are noise
	MinHoursPerYear int     // Rows required for a year to count as complete
	LeapAware       bool    // Raise the threshold to 8784 on leap years

	// Lookbacks overrides the per-plot default lookback windows, in years.
	Lookbacks map[schema.PlotKind]int

	ListenAddr string // HTTP listen address for the serve command
	SnapshotDB string // Path to the SQLite snapshot store ("" disables it)

	Output     OutputMode // CLI output format
	OutputFile string     // Optional path for CLI output (stdout otherwise)
	Precision  int        // Decimal precision for numeric CLI columns
	Width      int        // Terminal width override (0 = auto-detect)
	UseColors  bool       // Enable colored labels in table output
	Verbose    bool       // Debug-level logging
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct before validation.
type ConfigRawInput struct {
	// Set manually from the data-root flag, so no tag.
	DataRootStr string

	MaxDataPoints   int     `mapstructure:"max-data-points"`
	CacheTimeout    int     `mapstructure:"cache-timeout"`
	CacheCapacity   int     `mapstructure:"cache-capacity"`
	LoadWaitBudget  string  `mapstructure:"load-wait-budget"`
	SweepInterval   string  `mapstructure:"sweep-interval"`
	MinGenerationMW float64 `mapstructure:"min-generation-mw"`
	MinHoursPerYear int     `mapstructure:"min-hours-per-year"`
	LeapAware       bool    `mapstructure:"leap-aware"`

	LookbackGeneration int `mapstructure:"lookback-generation"`
	LookbackDuration   int `mapstructure:"lookback-duration-curve"`
	LookbackGHIHour    int `mapstructure:"lookback-ghi-hour"`
	LookbackGHITemp    int `mapstructure:"lookback-ghi-temperature"`
	LookbackDiurnal    int `mapstructure:"lookback-diurnal"`

	ListenAddr string `mapstructure:"listen-addr"`
	SnapshotDB string `mapstructure:"snapshot-db"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`
	Verbose    bool   `mapstructure:"verbose"`
}

// ProcessAndValidate turns raw input into a validated Config. It resolves the
// data root, applies defaults, and rejects out-of-range tunables.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	root := input.DataRootStr
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("cannot resolve data root %q: %w", root, err)
	}
	if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
		return fmt.Errorf("data root %q: %w", absRoot, schema.ErrNotFound)
	}
	cfg.DataRoot = absRoot

	if input.MaxDataPoints <= 0 {
		cfg.MaxDataPoints = DefaultMaxDataPoints
	} else if input.MaxDataPoints > MaxDataPointsCeiling {
		return fmt.Errorf("max-data-points cannot exceed %d", MaxDataPointsCeiling)
	} else {
		cfg.MaxDataPoints = input.MaxDataPoints
	}

	if input.CacheTimeout <= 0 {
		cfg.CacheTTL = DefaultCacheTTLSeconds * time.Second
	} else {
		cfg.CacheTTL = time.Duration(input.CacheTimeout) * time.Second
	}

	cfg.CacheCapacity = input.CacheCapacity
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = DefaultCacheCapacity
	}

	cfg.LoadWaitBudget, err = parseDurationDefault(input.LoadWaitBudget, DefaultLoadWaitBudget)
	if err != nil {
		return fmt.Errorf("invalid load-wait-budget: %w", err)
	}
	cfg.SweepInterval, err = parseDurationDefault(input.SweepInterval, DefaultSweepInterval)
	if err != nil {
		return fmt.Errorf("invalid sweep-interval: %w", err)
	}

	cfg.MinGenerationMW = input.MinGenerationMW
	if cfg.MinGenerationMW < 0 {
		return fmt.Errorf("min-generation-mw cannot be negative")
	}
	if cfg.MinGenerationMW == 0 {
		cfg.MinGenerationMW = DefaultMinGenerationMW
	}

	cfg.MinHoursPerYear = input.MinHoursPerYear
	if cfg.MinHoursPerYear <= 0 {
		cfg.MinHoursPerYear = DefaultMinHoursPerYear
	}
	cfg.LeapAware = input.LeapAware

	cfg.Lookbacks = make(map[schema.PlotKind]int, len(schema.AllPlotKinds))
	overrides := map[schema.PlotKind]int{
		schema.GenerationTimeseries: input.LookbackGeneration,
		schema.PriceDurationCurve:   input.LookbackDuration,
		schema.GHIHour:              input.LookbackGHIHour,
		schema.GHITemperature:       input.LookbackGHITemp,
		schema.DiurnalProfile:       input.LookbackDiurnal,
	}
	for kind, years := range overrides {
		if years < 0 {
			return fmt.Errorf("lookback for %s cannot be negative", kind)
		}
		if years == 0 {
			years = schema.PolicyFor(kind).LookbackYears
		}
		cfg.Lookbacks[kind] = years
	}

	cfg.ListenAddr = input.ListenAddr
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	cfg.SnapshotDB = input.SnapshotDB

	switch OutputMode(input.Output) {
	case TextOut, CSVOut, JSONOut:
		cfg.Output = OutputMode(input.Output)
	case "":
		cfg.Output = TextOut
	default:
		return fmt.Errorf("unsupported output format %q (must be text, csv, or json)", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	cfg.Precision = input.Precision
	if cfg.Precision < 1 {
		cfg.Precision = 1
	}
	if cfg.Precision > 4 {
		cfg.Precision = 4
	}
	cfg.Width = input.Width
	cfg.UseColors = input.Color != "no"
	cfg.Verbose = input.Verbose

	return nil
}

// LookbackYears returns the configured lookback window for a plot kind.
func (c *Config) LookbackYears(kind schema.PlotKind) int {
	if years, ok := c.Lookbacks[kind]; ok && years > 0 {
		return years
	}
	return schema.PolicyFor(kind).LookbackYears
}

// EffectiveCap returns the sampling cap for a plot kind: the process-wide
// base cap times the plot's multiplier.
func (c *Config) EffectiveCap(kind schema.PlotKind) int {
	return c.MaxDataPoints * schema.PolicyFor(kind).Multiplier
}

// Clone returns a copy of the config safe for per-request mutation.
func (c *Config) Clone() *Config {
	out := *c
	out.Lookbacks = make(map[schema.PlotKind]int, len(c.Lookbacks))
	for k, v := range c.Lookbacks {
		out.Lookbacks[k] = v
	}
	return &out
}

func parseDurationDefault(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration cannot be negative")
	}
	return d, nil
}
