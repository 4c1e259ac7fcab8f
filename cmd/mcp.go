package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gridsight/gridsight/internal/contract"
	"github.com/gridsight/gridsight/internal/mcp"
)

// mcpCmd starts the MCP server over stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol server over stdio.",
	Long: `Expose the portfolio catalog and plot pipeline as MCP tools so AI
assistants can query sites and series directly.

Tools:
  list_sites       - portfolio sites and their categories
  get_site_files   - parquet inventory for one site
  get_plot_series  - assembled, downsampled series for one plot

Example Claude Desktop config:
  {
    "mcpServers": {
      "gridsight": {
        "command": "gridsight",
        "args": ["mcp", "--data-root", "/srv/portfolio"]
      }
    }
  }`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := mcp.StartMCPServer(rootCtx, pipeline); err != nil {
			contract.LogFatal("MCP server failed", err)
		}
	},
}
