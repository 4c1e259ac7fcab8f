// Package dataset reads per-site columnar parquet files into in-memory
// column-oriented Datasets, bounded by per-plot lookback windows.
package dataset

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gridsight/gridsight/schema"
	"github.com/parquet-go/parquet-go"
)

// Row is the superset of columns found across site data files. Every field
// is optional: sites carry only the columns for their category, and weather
// columns exist on some sites only. The schema is inferred from struct tags.
type Row struct {
	Datetime *time.Time `parquet:"datetime,optional,snappy"`

	Year  *int32 `parquet:"year,optional,snappy"`
	Month *int32 `parquet:"month,optional,snappy"`
	Day   *int32 `parquet:"day,optional,snappy"`
	Hour  *int32 `parquet:"hour,optional,snappy"`

	GenerationMW         *float64 `parquet:"generation_mw,optional,snappy"`
	DailyGenerationMWH   *float64 `parquet:"daily_generation_mwh,optional,snappy"`
	MonthlyGenerationMWH *float64 `parquet:"monthly_generation_mwh,optional,snappy"`
	ShortwaveRadiation   *float64 `parquet:"shortwave_radiation,optional,snappy"`
	Temperature2M        *float64 `parquet:"temperature_2m,optional,snappy"`
	PriceDA              *float64 `parquet:"price_da,optional,snappy"`
	PriceRT              *float64 `parquet:"price_rt,optional,snappy"`
	WeightedPrice        *float64 `parquet:"weighted_price,optional,snappy"`
	RevenueDA            *float64 `parquet:"revenue_da,optional,snappy"`
	RevenueRT            *float64 `parquet:"revenue_rt,optional,snappy"`
	HistoricalAvg        *float64 `parquet:"historical_avg,optional,snappy"`
	ExceedancePct        *float64 `parquet:"exceedance_pct,optional,snappy"`
}

// knownColumns is the canonical column order for datasets built from rows.
var knownColumns = []string{
	schema.ColYear, schema.ColMonth, schema.ColDay, schema.ColHour,
	schema.ColGenerationMW, "daily_generation_mwh", "monthly_generation_mwh",
	schema.ColShortwaveRadiation, schema.ColTemperature2M,
	"price_da", "price_rt", schema.ColWeightedPrice,
	"revenue_da", "revenue_rt",
	schema.ColHistoricalAvg, schema.ColExceedancePct,
}

// value extracts the named column's value from a row, converting the
// decomposed time parts to float64. ok is false when the field is null.
func (r *Row) value(col string) (float64, bool) {
	intVal := func(p *int32) (float64, bool) {
		if p == nil {
			return 0, false
		}
		return float64(*p), true
	}
	floatVal := func(p *float64) (float64, bool) {
		if p == nil {
			return 0, false
		}
		return *p, true
	}
	switch col {
	case schema.ColYear:
		return intVal(r.Year)
	case schema.ColMonth:
		return intVal(r.Month)
	case schema.ColDay:
		return intVal(r.Day)
	case schema.ColHour:
		return intVal(r.Hour)
	case schema.ColGenerationMW:
		return floatVal(r.GenerationMW)
	case "daily_generation_mwh":
		return floatVal(r.DailyGenerationMWH)
	case "monthly_generation_mwh":
		return floatVal(r.MonthlyGenerationMWH)
	case schema.ColShortwaveRadiation:
		return floatVal(r.ShortwaveRadiation)
	case schema.ColTemperature2M:
		return floatVal(r.Temperature2M)
	case "price_da":
		return floatVal(r.PriceDA)
	case "price_rt":
		return floatVal(r.PriceRT)
	case schema.ColWeightedPrice:
		return floatVal(r.WeightedPrice)
	case "revenue_da":
		return floatVal(r.RevenueDA)
	case "revenue_rt":
		return floatVal(r.RevenueRT)
	case schema.ColHistoricalAvg:
		return floatVal(r.HistoricalAvg)
	case schema.ColExceedancePct:
		return floatVal(r.ExceedancePct)
	default:
		return 0, false
	}
}

// timestamp derives the row's time from the decomposed parts, falling back
// to the datetime column when parts are missing.
func (r *Row) timestamp() (time.Time, bool) {
	if r.Year != nil && r.Month != nil && r.Day != nil {
		hour := 0
		if r.Hour != nil {
			hour = int(*r.Hour)
		}
		return time.Date(int(*r.Year), time.Month(*r.Month), int(*r.Day), hour, 0, 0, 0, time.UTC), true
	}
	if r.Datetime != nil {
		return r.Datetime.UTC(), true
	}
	return time.Time{}, false
}

// ReadFile loads one parquet file into a Dataset. Columns absent from the
// file schema are omitted from the result rather than zero-filled, so the
// validator can report them as missing.
func ReadFile(path string) (*schema.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parsing parquet %s: %w", path, err)
	}

	// Determine which of the known columns the file actually carries.
	inFile := make(map[string]bool)
	for _, field := range pf.Schema().Fields() {
		inFile[field.Name()] = true
	}
	var present []string
	for _, col := range knownColumns {
		if inFile[col] {
			present = append(present, col)
		}
	}

	reader := parquet.NewGenericReader[Row](f)
	defer func() { _ = reader.Close() }()

	rows := make([]Row, reader.NumRows())
	total := 0
	for total < len(rows) {
		n, err := reader.Read(rows[total:])
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	return fromRows(rows[:total], present), nil
}

// fromRows builds a column-oriented dataset from decoded rows, keeping only
// the listed columns.
func fromRows(rows []Row, present []string) *schema.Dataset {
	ds := &schema.Dataset{
		Columns: append([]string(nil), present...),
		Values:  make(map[string][]float64, len(present)),
	}
	for _, col := range present {
		ds.Values[col] = make([]float64, 0, len(rows))
	}
	times := make([]time.Time, 0, len(rows))
	haveTimes := true
	for i := range rows {
		for _, col := range present {
			v, _ := rows[i].value(col)
			ds.Values[col] = append(ds.Values[col], v)
		}
		if haveTimes {
			if ts, ok := rows[i].timestamp(); ok {
				times = append(times, ts)
			} else {
				haveTimes = false
			}
		}
	}
	if haveTimes && len(times) == len(rows) {
		ds.Times = times
	}
	return ds
}

// WriteRows writes rows to a parquet file. Used by the export command and
// by test fixtures, so the loader reads exactly what the writer produces.
func WriteRows(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	writer := parquet.NewGenericWriter[Row](f)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return writer.Close()
}

// WriteDataset converts a dataset back into rows and writes them out.
// Only columns known to the wire schema are written.
func WriteDataset(path string, ds *schema.Dataset) error {
	rows := make([]Row, ds.RowCount())
	for i := range rows {
		for _, col := range ds.Columns {
			v := ds.Values[col][i]
			rows[i].setValue(col, v)
		}
		if len(ds.Times) > 0 {
			ts := ds.Times[i]
			rows[i].Datetime = &ts
		}
	}
	return WriteRows(path, rows)
}

// setValue is the write-side counterpart of value.
func (r *Row) setValue(col string, v float64) {
	setInt := func(dst **int32) {
		iv := int32(v)
		*dst = &iv
	}
	setFloat := func(dst **float64) {
		fv := v
		*dst = &fv
	}
	switch col {
	case schema.ColYear:
		setInt(&r.Year)
	case schema.ColMonth:
		setInt(&r.Month)
	case schema.ColDay:
		setInt(&r.Day)
	case schema.ColHour:
		setInt(&r.Hour)
	case schema.ColGenerationMW:
		setFloat(&r.GenerationMW)
	case "daily_generation_mwh":
		setFloat(&r.DailyGenerationMWH)
	case "monthly_generation_mwh":
		setFloat(&r.MonthlyGenerationMWH)
	case schema.ColShortwaveRadiation:
		setFloat(&r.ShortwaveRadiation)
	case schema.ColTemperature2M:
		setFloat(&r.Temperature2M)
	case "price_da":
		setFloat(&r.PriceDA)
	case "price_rt":
		setFloat(&r.PriceRT)
	case schema.ColWeightedPrice:
		setFloat(&r.WeightedPrice)
	case "revenue_da":
		setFloat(&r.RevenueDA)
	case "revenue_rt":
		setFloat(&r.RevenueRT)
	case schema.ColHistoricalAvg:
		setFloat(&r.HistoricalAvg)
	case schema.ColExceedancePct:
		setFloat(&r.ExceedancePct)
	}
}
