package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gridsight/gridsight/internal/catalog"
	"github.com/gridsight/gridsight/internal/contract"
	"github.com/gridsight/gridsight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVResultsForSites(t *testing.T) {
	sites := []schema.Site{
		{Name: "Desert_Sun_LLC", Categories: []schema.Category{schema.Generation, schema.PriceDA}},
		{Name: "Big_River_Power", Categories: []schema.Category{schema.Generation}},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, writeCSVResultsForSites(w, sites))
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "site,display_name,categories", lines[0])
	assert.Equal(t, "Desert_Sun_LLC,Desert Sun,generation|price_da", lines[1])
	assert.Equal(t, "Big_River_Power,Big River,generation", lines[2])
}

func TestWriteJSONResultsForSites(t *testing.T) {
	sites := []schema.Site{{Name: "Desert_Sun_LLC", Categories: []schema.Category{schema.Generation}}}

	var buf bytes.Buffer
	require.NoError(t, writeJSONResultsForSites(&buf, sites))

	var got []schema.Site
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Desert_Sun_LLC", got[0].Name)
}

func TestWriteCSVResultsForFiles(t *testing.T) {
	files := []catalog.FileInfo{
		{Category: schema.Generation, Kind: "historical", Name: "a.parquet", SizeBytes: 1024},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, writeCSVResultsForFiles(w, files))
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "generation,historical,a.parquet,1024", lines[1])
}

func sampleSeriesResult() *schema.PlotResult {
	return &schema.PlotResult{
		Series: &schema.Dataset{
			Columns: []string{schema.ColGenerationMW},
			Values:  map[string][]float64{schema.ColGenerationMW: {1.234, 5.678}},
			Times: []time.Time{
				time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2023, 6, 1, 1, 0, 0, 0, time.UTC),
			},
		},
		Diagnostic: schema.Diagnostic{Reason: schema.ReasonOK, RowsBefore: 2, RowsAfter: 2},
	}
}

func TestWriteCSVResultsForSeries(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, writeCSVResultsForSeries(w, sampleSeriesResult(), fmtFloat))
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "datetime,generation_mw", lines[0])
	assert.Equal(t, "2023-06-01 00:00,1.23", lines[1])
	assert.Equal(t, "2023-06-01 01:00,5.68", lines[2])
}

func TestWriteCSVResultsForSeriesDiagnosticOnly(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	result := &schema.PlotResult{
		Diagnostic: schema.Diagnostic{Reason: schema.ReasonNoData},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, writeCSVResultsForSeries(w, result, fmtFloat))
	w.Flush()
	assert.Empty(t, buf.String())
}

func TestWriteJSONResultsForSeries(t *testing.T) {
	req := SeriesContext{Site: "Desert_Sun_LLC", Kind: schema.GenerationTimeseries}

	var buf bytes.Buffer
	require.NoError(t, writeJSONResultsForSeries(&buf, req, sampleSeriesResult()))

	var got seriesPayload
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Desert_Sun_LLC", got.Site)
	assert.Equal(t, schema.ReasonOK, got.Diagnostic.Reason)
	assert.Equal(t, []float64{1.234, 5.678}, got.Values[schema.ColGenerationMW])
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.0 KiB", formatSize(1024))
	assert.Equal(t, "1.5 MiB", formatSize(1572864))
}

func TestGetMaxTableNameWidthOverride(t *testing.T) {
	cfg := &contract.Config{Width: 120}
	assert.Equal(t, 70, GetMaxTableNameWidth(cfg))

	cfg.Width = 50
	assert.Equal(t, 15, GetMaxTableNameWidth(cfg))

	cfg.Width = 80
	assert.Equal(t, 35, GetMaxTableNameWidth(cfg))
}
