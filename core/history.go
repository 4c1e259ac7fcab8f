package core

import (
	"sort"

	"github.com/gridsight/gridsight/schema"
)

// GroupKey selects the time bucket used for historical averaging.
type GroupKey string

const (
	ByHour     GroupKey = "hour"
	ByMonth    GroupKey = "month"
	ByMonthDay GroupKey = "month-day"
)

// HistoricalAverage reduces a multi-year dataset to one row per time bucket,
// with the bucket mean of valueCol stored under historical_avg. Used by the
// diurnal profile, which overlays the typical daily shape instead of raw
// hourly points.
func HistoricalAverage(ds *schema.Dataset, valueCol string, key GroupKey) *schema.Dataset {
	vals := ds.Column(valueCol)
	if vals == nil {
		return ds.Empty()
	}

	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[int]*bucket)
	for i, v := range vals {
		k, ok := bucketKey(ds, key, i)
		if !ok {
			continue
		}
		b := buckets[k]
		if b == nil {
			b = &bucket{}
			buckets[k] = b
		}
		b.sum += v
		b.count++
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := &schema.Dataset{
		Site:     ds.Site,
		Category: ds.Category,
		Scope:    ds.Scope,
		Columns:  groupColumns(key),
		Values:   make(map[string][]float64, 3),
	}
	for _, col := range out.Columns {
		out.Values[col] = make([]float64, 0, len(keys))
	}
	for _, k := range keys {
		b := buckets[k]
		appendGroupRow(out, key, k)
		avg := b.sum / float64(b.count)
		out.Values[schema.ColHistoricalAvg] = append(out.Values[schema.ColHistoricalAvg], avg)
	}
	return out
}

func groupColumns(key GroupKey) []string {
	switch key {
	case ByMonth:
		return []string{schema.ColMonth, schema.ColHistoricalAvg}
	case ByMonthDay:
		return []string{schema.ColMonth, schema.ColDay, schema.ColHistoricalAvg}
	default:
		return []string{schema.ColHour, schema.ColHistoricalAvg}
	}
}

// bucketKey packs the row's grouping columns into one comparable int.
// Month-day buckets use month*100+day so ordering matches the calendar.
func bucketKey(ds *schema.Dataset, key GroupKey, row int) (int, bool) {
	switch key {
	case ByMonth:
		months := ds.Column(schema.ColMonth)
		if months == nil {
			return 0, false
		}
		return int(months[row]), true
	case ByMonthDay:
		months := ds.Column(schema.ColMonth)
		days := ds.Column(schema.ColDay)
		if months == nil || days == nil {
			return 0, false
		}
		return int(months[row])*100 + int(days[row]), true
	default:
		hours := ds.Column(schema.ColHour)
		if hours == nil {
			return 0, false
		}
		return int(hours[row]), true
	}
}

func appendGroupRow(out *schema.Dataset, key GroupKey, k int) {
	switch key {
	case ByMonth:
		out.Values[schema.ColMonth] = append(out.Values[schema.ColMonth], float64(k))
	case ByMonthDay:
		out.Values[schema.ColMonth] = append(out.Values[schema.ColMonth], float64(k/100))
		out.Values[schema.ColDay] = append(out.Values[schema.ColDay], float64(k%100))
	default:
		out.Values[schema.ColHour] = append(out.Values[schema.ColHour], float64(k))
	}
}

// DurationCurve sorts the metric column descending and attaches an
// exceedance_pct column: row i carries the share of hours whose value meets
// or exceeds that row's value. The result is what the price duration chart
// plots directly.
func DurationCurve(ds *schema.Dataset, valueCol string) *schema.Dataset {
	vals := ds.Column(valueCol)
	if len(vals) == 0 {
		return ds.Empty()
	}

	order := make([]int, len(vals))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return vals[order[a]] > vals[order[b]]
	})

	sorted := ds.Select(order)
	exceedance := make([]float64, len(vals))
	for i := range exceedance {
		exceedance[i] = float64(i+1) / float64(len(vals)) * 100
	}
	return sorted.WithColumn(schema.ColExceedancePct, exceedance)
}
