package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gridsight/gridsight/core"
	"github.com/gridsight/gridsight/internal/contract"
	"github.com/gridsight/gridsight/internal/outwriter"
	"github.com/gridsight/gridsight/schema"
)

// seriesCmd assembles one plot series and prints it.
var seriesCmd = &cobra.Command{
	Use:   "series <site> <kind>",
	Short: "Assemble the data series behind one dashboard plot.",
	Long: `Run the full pipeline for one (site, plot kind) pair: load the hourly
historical data within the plot's lookback window, validate required columns,
filter incomplete years and noise rows, shape the series for the plot, and
downsample to the configured point cap.

Plot kinds: generation-timeseries, price-duration-curve, ghi-hour,
ghi-temperature, diurnal-profile.

Data-quality conditions (missing columns, no complete years, nothing on disk)
print a diagnostic instead of failing.

Examples:
  # Generation timeseries for one site
  gridsight series Desert_Sun_LLC generation-timeseries

  # Real-time price duration curve, full payload as CSV
  gridsight series Desert_Sun_LLC price-duration-curve --category price_rt --output csv

  # Radiation scatter with a tighter point cap
  gridsight series Desert_Sun_LLC ghi-hour --max-data-points 2000`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		req := core.SeriesRequest{
			Site:     args[0],
			Kind:     schema.PlotKind(args[1]),
			Category: schema.Category(viper.GetString("category")),
		}
		result, err := pipeline.AssembleSeries(rootCtx, req)
		if err != nil {
			contract.LogFatal("Cannot assemble series", err)
		}
		ctxInfo := outwriter.SeriesContext{Site: req.Site, Kind: req.Kind}
		if err := writer.WriteSeries(ctxInfo, result, cfg); err != nil {
			contract.LogFatal("Cannot write series", err)
		}
	},
}
