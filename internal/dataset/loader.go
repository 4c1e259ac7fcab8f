package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gridsight/gridsight/internal/catalog"
	"github.com/gridsight/gridsight/schema"
)

// Loader materializes one logical dataset per (site, category, scope),
// reading only the most recent lookback window. It is the unit of work
// wrapped by the result cache; all downstream stages are pure transforms.
type Loader struct {
	catalog *catalog.Catalog
	log     *slog.Logger
}

// NewLoader builds a loader over the given catalog.
func NewLoader(cat *catalog.Catalog, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{catalog: cat, log: log}
}

// Load reads the dataset for (site, category, scope), bounded by
// lookbackYears. For year-partitioned sources it concatenates the newest N
// partitions, newest-first selection but chronological output; consolidated
// files are trimmed to the most recent N distinct years after reading.
// A lookback of zero loads everything.
func (l *Loader) Load(ctx context.Context, site string, cat schema.Category, scope schema.Scope, lookbackYears int) (*schema.Dataset, error) {
	sources, err := l.catalog.Resolve(site, cat, scope)
	if err != nil {
		return nil, err
	}

	var partitions, consolidated []catalog.SourceFile
	for _, src := range sources {
		if src.Year > 0 {
			partitions = append(partitions, src)
		} else {
			consolidated = append(consolidated, src)
		}
	}

	var ds *schema.Dataset
	switch {
	case len(partitions) > 0:
		ds, err = l.loadPartitions(ctx, partitions, lookbackYears)
	default:
		ds, err = ReadFile(consolidated[0].Path)
		if err == nil && lookbackYears > 0 {
			ds = trimToRecentYears(ds, lookbackYears)
		}
	}
	if err != nil {
		return nil, err
	}

	ds.Site = site
	ds.Category = cat
	ds.Scope = scope
	l.log.Debug("dataset loaded",
		"site", site, "category", cat, "scope", scope.FileSuffix(),
		"rows", ds.RowCount(), "columns", len(ds.Columns))
	return ds, nil
}

// loadPartitions reads the newest lookbackYears partitions (sources arrive
// newest-first) and concatenates them in chronological order.
func (l *Loader) loadPartitions(ctx context.Context, sources []catalog.SourceFile, lookbackYears int) (*schema.Dataset, error) {
	if lookbackYears > 0 && len(sources) > lookbackYears {
		sources = sources[:lookbackYears]
	}
	// Read oldest selected partition first so row order stays chronological.
	sort.Slice(sources, func(i, j int) bool { return sources[i].Year < sources[j].Year })

	var combined *schema.Dataset
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		part, err := ReadFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("partition %d: %w", src.Year, err)
		}
		if combined == nil {
			combined = part
			continue
		}
		combined = concat(combined, part)
	}
	return combined, nil
}

// concat appends b's rows to a over the columns both datasets share,
// preserving a's column order.
func concat(a, b *schema.Dataset) *schema.Dataset {
	var shared []string
	for _, col := range a.Columns {
		if b.HasColumn(col) {
			shared = append(shared, col)
		}
	}
	out := &schema.Dataset{
		Columns: shared,
		Values:  make(map[string][]float64, len(shared)),
	}
	for _, col := range shared {
		vals := make([]float64, 0, a.RowCount()+b.RowCount())
		vals = append(vals, a.Values[col]...)
		vals = append(vals, b.Values[col]...)
		out.Values[col] = vals
	}
	if len(a.Times) > 0 && len(b.Times) > 0 {
		times := make([]time.Time, 0, len(a.Times)+len(b.Times))
		times = append(times, a.Times...)
		times = append(times, b.Times...)
		out.Times = times
	}
	return out
}

// trimToRecentYears keeps only rows belonging to the most recent n distinct
// years found in the year column. Datasets without a year column pass
// through unchanged.
func trimToRecentYears(ds *schema.Dataset, n int) *schema.Dataset {
	years := ds.Column(schema.ColYear)
	if years == nil {
		return ds
	}
	distinct := make(map[int]bool)
	for _, y := range years {
		distinct[int(y)] = true
	}
	if len(distinct) <= n {
		return ds
	}
	sorted := make([]int, 0, len(distinct))
	for y := range distinct {
		sorted = append(sorted, y)
	}
	sort.Ints(sorted)
	keep := make(map[int]bool, n)
	for _, y := range sorted[len(sorted)-n:] {
		keep[y] = true
	}
	var rows []int
	for i, y := range years {
		if keep[int(y)] {
			rows = append(rows, i)
		}
	}
	return ds.Select(rows)
}
