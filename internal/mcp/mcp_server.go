// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gridsight/gridsight/core"
)

// NewMCPServer initializes and configures the GridSight MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(pipeline *core.Pipeline) *server.MCPServer {
	s := server.NewMCPServer(
		"GridSight Portfolio Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{pipeline: pipeline}

	// --- 1. Tool: list_sites ---
	s.AddTool(mcp.NewTool("list_sites",
		mcp.WithDescription("List every renewable-energy site in the portfolio with its available data categories."),
	), h.handleListSites)

	// --- 2. Tool: get_site_files ---
	s.AddTool(mcp.NewTool("get_site_files",
		mcp.WithDescription("List the data files discovered for one site."),
		mcp.WithString("site", mcp.Description("Site folder name, e.g. 'Desert_Sun_LLC'."), mcp.Required()),
	), h.handleGetSiteFiles)

	// --- 3. Tool: get_plot_series ---
	s.AddTool(mcp.NewTool("get_plot_series",
		mcp.WithDescription("Assemble the data series behind one dashboard plot, downsampled to the configured point cap."),
		mcp.WithString("site", mcp.Description("Site folder name."), mcp.Required()),
		mcp.WithString("kind", mcp.Description("Plot kind."), mcp.Required(),
			mcp.Enum("generation-timeseries", "price-duration-curve", "ghi-hour", "ghi-temperature", "diurnal-profile")),
		mcp.WithString("category", mcp.Description("Data category override (generation, price_da, price_rt, revenue_da, revenue_rt).")),
	), h.handleGetPlotSeries)

	return s
}

// StartMCPServer starts the GridSight MCP server over stdio.
func StartMCPServer(_ context.Context, pipeline *core.Pipeline) error {
	s := NewMCPServer(pipeline)
	return server.ServeStdio(s)
}
