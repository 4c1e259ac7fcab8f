package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/gridsight/gridsight/internal/catalog"
	"github.com/gridsight/gridsight/internal/contract"
)

// PrintFileResults outputs the file inventory for one site, dispatching based
// on the output format configured.
func PrintFileResults(site string, files []catalog.FileInfo, cfg *contract.Config) error {
	switch cfg.Output {
	case contract.JSONOut:
		if err := printJSONResultsForFiles(site, files, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case contract.CSVOut:
		if err := printCSVResultsForFiles(files, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := printFilesTable(site, files, cfg); err != nil {
			return fmt.Errorf("error writing files table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForFiles handles opening the file and calling the JSON writer.
func printJSONResultsForFiles(site string, files []catalog.FileInfo, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForFiles(w, site, files)
	}, "Wrote JSON file inventory")
}

// printCSVResultsForFiles handles opening the file and calling the CSV writer.
func printCSVResultsForFiles(files []catalog.FileInfo, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForFiles(csvWriter, files)
	}, "Wrote CSV file inventory")
}

// printFilesTable prints the file inventory in a four-column table.
func printFilesTable(site string, files []catalog.FileInfo, cfg *contract.Config) error {
	table := tablewriter.NewWriter(os.Stdout)

	headers := []string{"Category", "Kind", "Name", "Size"}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	var total int64
	for _, f := range files {
		total += f.SizeBytes
		row := []string{
			string(f.Category),
			f.Kind,
			contract.TruncatePath(f.Name, GetMaxTableNameWidth(cfg)),
			formatSize(f.SizeBytes),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("%s: %d files, %s total\n", site, len(files), formatSize(total))
	return nil
}
