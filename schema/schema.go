// Package schema has the domain types shared by all parts of gridsight.
package schema

import (
	"strings"
	"time"
)

// Category identifies a data domain for a site.
type Category string

// Known site data categories. The string values match the metric identifiers
// used in parquet file names; Folder returns the on-disk directory name.
const (
	Generation Category = "generation"
	PriceDA    Category = "price_da"
	PriceRT    Category = "price_rt"
	RevenueDA  Category = "revenue_da"
	RevenueRT  Category = "revenue_rt"
)

// AllCategories lists every category a site may provide, in display order.
var AllCategories = []Category{Generation, PriceDA, PriceRT, RevenueDA, RevenueRT}

// categoryFolders maps categories to their directory names in the data tree.
var categoryFolders = map[Category]string{
	Generation: "Generation",
	PriceDA:    "Price_da",
	PriceRT:    "Price_rt",
	RevenueDA:  "Revenue_da",
	RevenueRT:  "Revenue_rt",
}

// Folder returns the on-disk directory name for the category.
func (c Category) Folder() string {
	if f, ok := categoryFolders[c]; ok {
		return f
	}
	return string(c)
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryFolders[c]
	return ok
}

// ScopeKind disambiguates historical data from the two forecast sub-kinds.
type ScopeKind string

const (
	Historical           ScopeKind = "historical"
	ForecastTimeseries   ScopeKind = "forecast-timeseries"
	ForecastDistribution ScopeKind = "forecast-distribution"
)

// Temporal is the time resolution of a dataset file.
type Temporal string

const (
	Hourly  Temporal = "hourly"
	Daily   Temporal = "daily"
	Monthly Temporal = "monthly"
)

// Scope identifies one logical dataset partition family for a (site, category).
type Scope struct {
	Kind     ScopeKind
	Temporal Temporal
}

// HistoricalHourly is the scope used by every statistical plot family.
var HistoricalHourly = Scope{Kind: Historical, Temporal: Hourly}

// Subdir returns the scope's path below the category folder.
func (s Scope) Subdir() string {
	switch s.Kind {
	case ForecastTimeseries:
		return "forecast/timeseries"
	case ForecastDistribution:
		return "forecast/distribution"
	default:
		return "historical"
	}
}

// FileSuffix returns the trailing component of the scope's file names,
// e.g. "hourly_historical" in site_generation_hourly_historical.parquet.
func (s Scope) FileSuffix() string {
	switch s.Kind {
	case ForecastTimeseries:
		return string(s.Temporal) + "_timeseries"
	case ForecastDistribution:
		return string(s.Temporal) + "_distribution"
	default:
		return string(s.Temporal) + "_historical"
	}
}

// Site is one renewable-energy asset with its own data tree.
// Sites are built during catalog discovery and treated as immutable.
type Site struct {
	Name       string     `json:"name"`
	Path       string     `json:"-"`
	Categories []Category `json:"categories"`
}

// DisplayName returns the cleaned-up human-readable site name.
func (s Site) DisplayName() string {
	return CleanSiteName(s.Name)
}

// HasCategory reports whether the site provides the given category.
func (s Site) HasCategory(c Category) bool {
	for _, have := range s.Categories {
		if have == c {
			return true
		}
	}
	return false
}

// CleanSiteName strips corporate suffixes and underscores from a raw site
// folder name, e.g. "desert_sun_LLC" becomes "Desert Sun".
func CleanSiteName(name string) string {
	name = strings.ReplaceAll(name, "_LLC", "")
	name = strings.ReplaceAll(name, "_Power", "")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.TrimSpace(strings.Title(name)) //nolint:staticcheck // site names are ASCII
}

// Dataset is a column-oriented table holding one loaded (site, category,
// scope) slice of data. Datasets are never mutated in place: every filter and
// sampling stage builds a new Dataset from selected row indices, so a cached
// original can be reused by other plot types.
type Dataset struct {
	Site     string
	Category Category
	Scope    Scope

	// Columns preserves the order in which columns appeared in the source.
	Columns []string
	// Values maps a column name to its per-row values.
	Values map[string][]float64
	// Times holds a per-row timestamp derived from the decomposed
	// year/month/day/hour columns. Empty when the source lacks time parts.
	Times []time.Time
}

// RowCount returns the number of rows in the dataset.
func (d *Dataset) RowCount() int {
	if d == nil {
		return 0
	}
	if len(d.Times) > 0 {
		return len(d.Times)
	}
	for _, col := range d.Columns {
		return len(d.Values[col])
	}
	return 0
}

// HasColumn reports whether the dataset carries the named column.
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.Values[name]
	return ok
}

// Column returns the values of the named column, or nil if absent.
func (d *Dataset) Column(name string) []float64 {
	if d == nil {
		return nil
	}
	return d.Values[name]
}

// Select builds a new Dataset containing only the given row indices, in the
// given order. The receiver is left untouched.
func (d *Dataset) Select(rows []int) *Dataset {
	out := &Dataset{
		Site:     d.Site,
		Category: d.Category,
		Scope:    d.Scope,
		Columns:  append([]string(nil), d.Columns...),
		Values:   make(map[string][]float64, len(d.Columns)),
	}
	for _, col := range d.Columns {
		src := d.Values[col]
		vals := make([]float64, 0, len(rows))
		for _, i := range rows {
			vals = append(vals, src[i])
		}
		out.Values[col] = vals
	}
	if len(d.Times) > 0 {
		out.Times = make([]time.Time, 0, len(rows))
		for _, i := range rows {
			out.Times = append(out.Times, d.Times[i])
		}
	}
	return out
}

// WithColumn returns a shallow copy of the dataset with one extra column
// appended. The value slice must match the dataset's row count.
func (d *Dataset) WithColumn(name string, vals []float64) *Dataset {
	out := &Dataset{
		Site:     d.Site,
		Category: d.Category,
		Scope:    d.Scope,
		Columns:  append(append([]string(nil), d.Columns...), name),
		Values:   make(map[string][]float64, len(d.Columns)+1),
		Times:    d.Times,
	}
	for col, v := range d.Values {
		out.Values[col] = v
	}
	out.Values[name] = vals
	return out
}

// Empty returns a zero-row dataset with the same column layout, used by
// filters whose predicate eliminated every row.
func (d *Dataset) Empty() *Dataset {
	return d.Select(nil)
}

// ValueColumn returns the metric column name for a category at a temporal
// resolution, following the naming scheme of the source files.
func ValueColumn(cat Category, temporal Temporal) string {
	switch cat {
	case Generation:
		if temporal == Hourly {
			return ColGenerationMW
		}
		return string(temporal) + "_generation_mwh"
	case PriceDA, PriceRT:
		if temporal == Hourly {
			return string(cat)
		}
		return ColWeightedPrice
	default:
		return string(cat)
	}
}
