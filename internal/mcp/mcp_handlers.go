package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gridsight/gridsight/core"
	"github.com/gridsight/gridsight/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	pipeline *core.Pipeline
}

func (h *toolHandler) handleListSites(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sites, err := h.pipeline.Catalog.Sites()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog scan failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(sites, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSiteFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	site := request.GetString("site", "")
	if site == "" {
		return mcp.NewToolResultError("site is required"), nil
	}

	files, err := h.pipeline.Catalog.Files(site)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("file listing failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(files, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// plotSeriesPayload is the series shape returned to MCP clients.
type plotSeriesPayload struct {
	Site       string               `json:"site"`
	Kind       schema.PlotKind      `json:"kind"`
	Columns    []string             `json:"columns,omitempty"`
	Values     map[string][]float64 `json:"values,omitempty"`
	Times      []time.Time          `json:"times,omitempty"`
	Diagnostic schema.Diagnostic    `json:"diagnostic"`
}

func (h *toolHandler) handleGetPlotSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := core.SeriesRequest{
		Site:     request.GetString("site", ""),
		Kind:     schema.PlotKind(request.GetString("kind", "")),
		Category: schema.Category(request.GetString("category", "")),
	}
	if req.Site == "" {
		return mcp.NewToolResultError("site is required"), nil
	}
	if !req.Kind.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown plot kind %q", req.Kind)), nil
	}

	result, err := h.pipeline.AssembleSeries(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("series assembly failed: %v", err)), nil
	}

	payload := plotSeriesPayload{
		Site:       req.Site,
		Kind:       req.Kind,
		Diagnostic: result.Diagnostic,
	}
	if result.Series != nil {
		payload.Columns = result.Series.Columns
		payload.Values = result.Series.Values
		payload.Times = result.Series.Times
	}

	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
