package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gridsight/gridsight/internal/contract"
)

// filesCmd lists the parquet inventory of one site.
var filesCmd = &cobra.Command{
	Use:   "files <site>",
	Short: "List the data files discovered for one site.",
	Long: `Enumerate every parquet file discovered for a site, grouped by category
and scope kind (historical, timeseries, distribution), with sizes.

Useful for checking which year partitions exist before a series request and
for spotting sites with missing or truncated archives.

Examples:
  # Inventory one site
  gridsight files Desert_Sun_LLC

  # Export the inventory as JSON
  gridsight files Desert_Sun_LLC --output json --output-file inventory.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		files, err := siteCat.Files(args[0])
		if err != nil {
			contract.LogFatal("Cannot list site files", err)
		}
		if err := writer.WriteFiles(args[0], files, cfg); err != nil {
			contract.LogFatal("Cannot write file inventory", err)
		}
	},
}
