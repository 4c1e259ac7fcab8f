package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gridsight/gridsight/internal/catalog"
	"github.com/gridsight/gridsight/internal/contract"
	"github.com/gridsight/gridsight/internal/dataset"
	"github.com/gridsight/gridsight/internal/rescache"
	"github.com/gridsight/gridsight/schema"
)

// SeriesRequest identifies one plot series to assemble. Category may be left
// empty to use the plot kind's default.
type SeriesRequest struct {
	Site     string
	Category schema.Category
	Kind     schema.PlotKind
}

// Pipeline wires the catalog, loader, and result cache into the assembler.
// It is safe for concurrent use; all per-request state lives on the stack.
type Pipeline struct {
	Cfg     *contract.Config
	Catalog *catalog.Catalog
	Loader  *dataset.Loader
	Cache   *rescache.Cache
	Log     *slog.Logger
}

// NewPipeline builds a pipeline from its components.
func NewPipeline(cfg *contract.Config, cat *catalog.Catalog, loader *dataset.Loader, cache *rescache.Cache, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{Cfg: cfg, Catalog: cat, Loader: loader, Cache: cache, Log: log}
}

// AssembleSeries runs the full pipeline for one request: cached load,
// column validation, coverage and threshold filtering, plot-specific
// shaping, and adaptive sampling.
//
// Data-quality conditions (nothing on disk, missing columns, no complete
// years, all rows filtered) come back as a diagnostic-tagged result with a
// nil error. Errors are reserved for infrastructure failures: unknown site
// or category, unreadable files, cancelled context.
func (p *Pipeline) AssembleSeries(ctx context.Context, req SeriesRequest) (*schema.PlotResult, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("unknown plot kind %q: %w", req.Kind, schema.ErrNotFound)
	}
	cat := req.Category
	if cat == "" {
		cat = schema.CategoryFor(req.Kind)
	}
	if !cat.Valid() {
		return nil, fmt.Errorf("unknown category %q: %w", req.Category, schema.ErrNotFound)
	}
	if _, err := p.Catalog.Site(req.Site); err != nil {
		return nil, err
	}

	scope := schema.HistoricalHourly
	lookback := p.Cfg.LookbackYears(req.Kind)
	key := cacheKey(req.Site, cat, scope, lookback)

	ds, err := p.Cache.GetOrLoad(ctx, key, func(ctx context.Context) (*schema.Dataset, error) {
		return p.Loader.Load(ctx, req.Site, cat, scope, lookback)
	})
	if err != nil {
		if errors.Is(err, schema.ErrDataUnavailable) {
			return &schema.PlotResult{
				Diagnostic: schema.Diagnostic{Reason: schema.ReasonNoData},
			}, nil
		}
		return nil, err
	}

	required := schema.RequiredColumns(req.Kind, cat)
	if v := ValidateColumns(ds, required); !v.OK {
		p.Log.Warn("series lacks required columns",
			"site", req.Site, "kind", req.Kind, "missing", v.Missing)
		return &schema.PlotResult{
			Diagnostic: schema.Diagnostic{
				Reason:           schema.ReasonMissingColumns,
				MissingColumns:   v.Missing,
				AvailableColumns: v.Available,
				RowsBefore:       ds.RowCount(),
			},
		}, nil
	}

	rowsBefore := ds.RowCount()

	if needsCompleteYears(req.Kind) {
		rule := CoverageRule{MinHours: p.Cfg.MinHoursPerYear, LeapAware: p.Cfg.LeapAware}
		ds = FilterCompleteYears(ds, rule, lookback)
		if ds.RowCount() == 0 {
			return &schema.PlotResult{
				Diagnostic: schema.Diagnostic{
					Reason:     schema.ReasonNoCompleteYears,
					RowsBefore: rowsBefore,
				},
			}, nil
		}
	}

	ds = p.applyThresholds(req.Kind, ds)
	if ds.RowCount() == 0 {
		return &schema.PlotResult{
			Diagnostic: schema.Diagnostic{
				Reason:     schema.ReasonBelowThreshold,
				RowsBefore: rowsBefore,
			},
		}, nil
	}

	switch req.Kind {
	case schema.PriceDurationCurve:
		ds = DurationCurve(ds, schema.ValueColumn(cat, schema.Hourly))
	case schema.DiurnalProfile:
		ds = HistoricalAverage(ds, schema.ValueColumn(cat, schema.Hourly), ByHour)
	}

	preSample := ds.RowCount()
	ds = Sample(ds, p.Cfg.EffectiveCap(req.Kind))
	sampled := ds.RowCount() < preSample
	if sampled {
		p.Log.Info("series sampled",
			"site", req.Site, "kind", req.Kind,
			"from", preSample, "to", ds.RowCount())
	}

	return &schema.PlotResult{
		Series: ds,
		Diagnostic: schema.Diagnostic{
			Reason:     schema.ReasonOK,
			RowsBefore: rowsBefore,
			RowsAfter:  ds.RowCount(),
			Sampled:    sampled,
		},
	}, nil
}

// needsCompleteYears reports whether the plot kind aggregates across years
// and therefore excludes partial years.
func needsCompleteYears(kind schema.PlotKind) bool {
	switch kind {
	case schema.PriceDurationCurve, schema.GHIHour, schema.GHITemperature, schema.DiurnalProfile:
		return true
	}
	return false
}

// applyThresholds strips noise rows from the correlation scatter kinds. The
// timeseries and aggregate kinds keep every row, zeros included, because
// zero output is real information on those charts.
func (p *Pipeline) applyThresholds(kind schema.PlotKind, ds *schema.Dataset) *schema.Dataset {
	switch kind {
	case schema.GHIHour, schema.GHITemperature:
		ds = FilterByThreshold(ds, schema.ColGenerationMW, p.Cfg.MinGenerationMW, AtLeast)
		ds = FilterByThreshold(ds, schema.ColShortwaveRadiation, 0, Above)
	}
	return ds
}

// cacheKey derives a stable key for one loaded dataset. Requests for
// different plot kinds that share a (site, category, scope, lookback) hit
// the same cached load.
func cacheKey(site string, cat schema.Category, scope schema.Scope, lookback int) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d", site, cat, scope.FileSuffix(), lookback)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
