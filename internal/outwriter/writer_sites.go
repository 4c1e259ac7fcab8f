package outwriter

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/gridsight/gridsight/schema"
)

// writeJSONResultsForSites marshals the site listing to JSON and writes it.
func writeJSONResultsForSites(w io.Writer, sites []schema.Site) error {
	return writeJSON(w, sites)
}

// writeCSVResultsForSites writes the site listing to a CSV writer.
func writeCSVResultsForSites(w *csv.Writer, sites []schema.Site) error {
	header := []string{
		"site",
		"display_name",
		"categories",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, site := range sites {
		row := []string{
			site.Name,
			site.DisplayName(),
			formatCategories(site.Categories),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// formatCategories joins a category list for display.
func formatCategories(cats []schema.Category) string {
	parts := make([]string, 0, len(cats))
	for _, c := range cats {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, "|")
}
