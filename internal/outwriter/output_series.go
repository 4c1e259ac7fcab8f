package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/gridsight/gridsight/internal/contract"
	"github.com/gridsight/gridsight/schema"
)

// tablePreviewRows bounds how many data rows the table renderer shows. Full
// payloads are available through the csv and json formats.
const tablePreviewRows = 15

// PrintSeriesResults outputs an assembled series, dispatching based on the
// output format configured.
func PrintSeriesResults(req SeriesContext, result *schema.PlotResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case contract.JSONOut:
		if err := printJSONResultsForSeries(req, result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case contract.CSVOut:
		if err := printCSVResultsForSeries(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printSeriesTable(req, result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing series table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForSeries handles opening the file and calling the JSON writer.
func printJSONResultsForSeries(req SeriesContext, result *schema.PlotResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForSeries(w, req, result)
	}, "Wrote JSON series results")
}

// printCSVResultsForSeries handles opening the file and calling the CSV writer.
func printCSVResultsForSeries(result *schema.PlotResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForSeries(csvWriter, result, fmtFloat)
	}, "Wrote CSV series results")
}

// printSeriesTable prints the diagnostic summary and a bounded row preview.
func printSeriesTable(req SeriesContext, result *schema.PlotResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	d := result.Diagnostic
	fmt.Printf("%s / %s: %s (rows %d -> %d)\n",
		req.Site, req.Kind, contract.ReasonLabel(d.Reason, cfg.UseColors), d.RowsBefore, d.RowsAfter)
	if len(d.MissingColumns) > 0 {
		fmt.Printf("missing columns: %s\n", strings.Join(d.MissingColumns, ", "))
	}
	if !result.OK() {
		return nil
	}

	ds := result.Series
	table := tablewriter.NewWriter(os.Stdout)

	headers := make([]string, 0, len(ds.Columns)+1)
	if len(ds.Times) > 0 {
		headers = append(headers, "Time")
	}
	headers = append(headers, ds.Columns...)
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	limit := ds.RowCount()
	if limit > tablePreviewRows {
		limit = tablePreviewRows
	}
	var data [][]string
	for i := 0; i < limit; i++ {
		row := make([]string, 0, len(headers))
		if len(ds.Times) > 0 {
			row = append(row, ds.Times[i].Format(contract.DateTimeFormat))
		}
		for _, col := range ds.Columns {
			row = append(row, fmtFloat(ds.Values[col][i]))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if ds.RowCount() > limit {
		fmt.Printf("showing %d of %d rows (use --output csv for the full series)\n", limit, ds.RowCount())
	}
	if d.Sampled {
		fmt.Println("note: series was downsampled to the configured point cap")
	}
	return nil
}
