// Package outwriter renders catalog listings and assembled series in the
// configured CLI output format.
package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/gridsight/gridsight/internal/catalog"
	"github.com/gridsight/gridsight/internal/contract"
	"github.com/gridsight/gridsight/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the command layer.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSites prints the site listing using the configured output format.
func (ow *OutWriter) WriteSites(sites []schema.Site, cfg *contract.Config) error {
	return PrintSiteResults(sites, cfg)
}

// WriteFiles prints the per-site file inventory using the configured output format.
func (ow *OutWriter) WriteFiles(site string, files []catalog.FileInfo, cfg *contract.Config) error {
	return PrintFileResults(site, files, cfg)
}

// WriteSeries prints an assembled plot series using the configured output format.
func (ow *OutWriter) WriteSeries(req SeriesContext, result *schema.PlotResult, cfg *contract.Config) error {
	return PrintSeriesResults(req, result, cfg)
}

// SeriesContext carries the request identity alongside a result for display.
type SeriesContext struct {
	Site string          `json:"site"`
	Kind schema.PlotKind `json:"kind"`
}

// GetMaxTableNameWidth calculates the maximum width for name columns in table
// output based on terminal width.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns with borders and padding.
	available := termWidth - 45
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
