package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gridsight/gridsight/internal/contract"
)

// sitesCmd lists the discovered portfolio sites.
var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List every site discovered under the data root.",
	Long: `Walk the data root and list every site with its available data categories.

A site is any top-level directory containing at least one recognized category
folder (Generation, Price_da, Price_rt, Revenue_da, Revenue_rt). Sites with a
partial category set are listed with whatever they have.

Examples:
  # List sites under the current directory
  gridsight sites

  # List sites from a specific data tree as CSV
  gridsight sites --data-root /srv/portfolio --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		sites, err := siteCat.Sites()
		if err != nil {
			contract.LogFatal("Cannot scan data root", err)
		}
		if err := writer.WriteSites(sites, cfg); err != nil {
			contract.LogFatal("Cannot write site listing", err)
		}
	},
}
