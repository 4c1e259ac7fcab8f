package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/gridsight/gridsight/internal/catalog"
)

// fileInventory is the JSON shape for the file inventory output.
type fileInventory struct {
	Site  string             `json:"site"`
	Files []catalog.FileInfo `json:"files"`
}

// writeJSONResultsForFiles marshals the file inventory to JSON and writes it.
func writeJSONResultsForFiles(w io.Writer, site string, files []catalog.FileInfo) error {
	return writeJSON(w, fileInventory{Site: site, Files: files})
}

// writeCSVResultsForFiles writes the file inventory to a CSV writer.
func writeCSVResultsForFiles(w *csv.Writer, files []catalog.FileInfo) error {
	header := []string{
		"category",
		"kind",
		"name",
		"size_bytes",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range files {
		row := []string{
			string(f.Category),
			f.Kind,
			f.Name,
			strconv.FormatInt(f.SizeBytes, 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
