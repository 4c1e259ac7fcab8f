package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/gridsight/gridsight/internal/contract"
	"github.com/gridsight/gridsight/schema"
)

// PrintSiteResults outputs the site listing, dispatching based on the output format configured.
func PrintSiteResults(sites []schema.Site, cfg *contract.Config) error {
	switch cfg.Output {
	case contract.JSONOut:
		if err := printJSONResultsForSites(sites, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case contract.CSVOut:
		if err := printCSVResultsForSites(sites, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printSitesTable(sites, cfg); err != nil {
			return fmt.Errorf("error writing sites table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForSites handles opening the file and calling the JSON writer.
func printJSONResultsForSites(sites []schema.Site, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForSites(w, sites)
	}, "Wrote JSON site listing")
}

// printCSVResultsForSites handles opening the file and calling the CSV writer.
func printCSVResultsForSites(sites []schema.Site, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForSites(csvWriter, sites)
	}, "Wrote CSV site listing")
}

// printSitesTable prints the site listing in a three-column table.
func printSitesTable(sites []schema.Site, cfg *contract.Config) error {
	table := tablewriter.NewWriter(os.Stdout)

	headers := []string{"Site", "Display Name", "Categories"}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, site := range sites {
		row := []string{
			contract.TruncatePath(site.Name, GetMaxTableNameWidth(cfg)),
			site.DisplayName(),
			formatCategories(site.Categories),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("%d sites discovered\n", len(sites))
	return nil
}
