package outwriter

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/gridsight/gridsight/internal/contract"
	"github.com/gridsight/gridsight/schema"
)

// seriesPayload is the JSON shape for series output.
type seriesPayload struct {
	Site       string               `json:"site"`
	Kind       schema.PlotKind      `json:"kind"`
	Columns    []string             `json:"columns,omitempty"`
	Values     map[string][]float64 `json:"values,omitempty"`
	Times      []time.Time          `json:"times,omitempty"`
	Diagnostic schema.Diagnostic    `json:"diagnostic"`
}

// writeJSONResultsForSeries marshals the series to JSON and writes it.
func writeJSONResultsForSeries(w io.Writer, req SeriesContext, result *schema.PlotResult) error {
	payload := seriesPayload{
		Site:       req.Site,
		Kind:       req.Kind,
		Diagnostic: result.Diagnostic,
	}
	if result.Series != nil {
		payload.Columns = result.Series.Columns
		payload.Values = result.Series.Values
		payload.Times = result.Series.Times
	}
	return writeJSON(w, payload)
}

// writeCSVResultsForSeries writes the series rows to a CSV writer. A result
// without a usable series writes the header only.
func writeCSVResultsForSeries(w *csv.Writer, result *schema.PlotResult, fmtFloat func(float64) string) error {
	if result.Series == nil {
		return nil
	}
	ds := result.Series

	header := make([]string, 0, len(ds.Columns)+1)
	hasTimes := len(ds.Times) > 0
	if hasTimes {
		header = append(header, "datetime")
	}
	header = append(header, ds.Columns...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := 0; i < ds.RowCount(); i++ {
		row := make([]string, 0, len(header))
		if hasTimes {
			row = append(row, ds.Times[i].Format(contract.DateTimeFormat))
		}
		for _, col := range ds.Columns {
			row = append(row, fmtFloat(ds.Values[col][i]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
