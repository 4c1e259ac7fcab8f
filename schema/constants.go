package schema

// Column names shared across dataset files. Weather columns are present on
// some sites only; the validator reports their absence instead of failing.
const (
	ColYear               = "year"
	ColMonth              = "month"
	ColDay                = "day"
	ColHour               = "hour"
	ColGenerationMW       = "generation_mw"
	ColShortwaveRadiation = "shortwave_radiation"
	ColTemperature2M      = "temperature_2m"
	ColWeightedPrice      = "weighted_price"
	ColHistoricalAvg      = "historical_avg"
	ColExceedancePct      = "exceedance_pct"
)

// PlotKind names one plot family served by the pipeline.
type PlotKind string

const (
	GenerationTimeseries PlotKind = "generation-timeseries"
	PriceDurationCurve   PlotKind = "price-duration-curve"
	GHIHour              PlotKind = "ghi-hour"
	GHITemperature       PlotKind = "ghi-temperature"
	DiurnalProfile       PlotKind = "diurnal-profile"
)

// AllPlotKinds lists every plot family, in display order.
var AllPlotKinds = []PlotKind{
	GenerationTimeseries,
	PriceDurationCurve,
	GHIHour,
	GHITemperature,
	DiurnalProfile,
}

// Valid reports whether k is a known plot kind.
func (k PlotKind) Valid() bool {
	_, ok := samplingPolicies[k]
	return ok
}

// SamplingPolicy controls how aggressively a plot family is downsampled and
// how many years of history its loader pulls in. The effective point cap is
// the process-wide base cap times Multiplier.
type SamplingPolicy struct {
	Multiplier    int
	LookbackYears int
}

// samplingPolicies are static per plot kind. Scatter plots tolerate denser
// payloads than line charts, hence the higher multiplier.
var samplingPolicies = map[PlotKind]SamplingPolicy{
	GenerationTimeseries: {Multiplier: 1, LookbackYears: 10},
	PriceDurationCurve:   {Multiplier: 1, LookbackYears: 10},
	GHIHour:              {Multiplier: 2, LookbackYears: 10},
	GHITemperature:       {Multiplier: 2, LookbackYears: 5},
	DiurnalProfile:       {Multiplier: 1, LookbackYears: 10},
}

// PolicyFor returns the sampling policy for a plot kind.
func PolicyFor(kind PlotKind) SamplingPolicy {
	if p, ok := samplingPolicies[kind]; ok {
		return p
	}
	return SamplingPolicy{Multiplier: 1, LookbackYears: 10}
}

// requiredColumns are static per plot kind and checked before any downstream
// transform runs. Order matters: missing columns are reported in this order.
var requiredColumns = map[PlotKind][]string{
	GenerationTimeseries: {ColYear, ColMonth, ColDay, ColHour, ColGenerationMW},
	PriceDurationCurve:   {ColYear, ColHour},
	GHIHour:              {ColYear, ColHour, ColGenerationMW, ColShortwaveRadiation},
	GHITemperature:       {ColYear, ColHour, ColGenerationMW, ColShortwaveRadiation, ColTemperature2M},
	DiurnalProfile:       {ColYear, ColHour},
}

// RequiredColumns returns the ordered required-column set for a plot kind.
// Price and revenue families additionally require their metric column, which
// depends on the requested category and is appended by the caller.
func RequiredColumns(kind PlotKind, cat Category) []string {
	cols := append([]string(nil), requiredColumns[kind]...)
	switch kind {
	case PriceDurationCurve, DiurnalProfile:
		cols = append(cols, ValueColumn(cat, Hourly))
	}
	return cols
}

// CategoryFor returns the default category a plot kind runs against when the
// request does not pin one.
func CategoryFor(kind PlotKind) Category {
	switch kind {
	case PriceDurationCurve:
		return PriceDA
	default:
		return Generation
	}
}
