// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/scanwork/deltascan/internal/contract"
)

// NewMCPServer initializes and configures the deltascan MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.RunStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Deltascan Diff Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: diff_inventories ---
	s.AddTool(mcp.NewTool("diff_inventories",
		mcp.WithDescription("Diff two file inventories and return the classified, scored deltas."),
		mcp.WithString("old_inventory", mcp.Description("Path to the old (base) inventory JSON."), mcp.Required()),
		mcp.WithString("new_inventory", mcp.Description("Path to the new (target) inventory JSON."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of deltas returned.")),
		mcp.WithBoolean("all", mcp.Description("Include unmodified deltas in the result.")),
		mcp.WithString("attributes", mcp.Description("Comma-separated attribute names producing change factors (defaults to license,copyright).")),
	), h.handleDiffInventories)

	// --- 2. Tool: get_scoring_metrics ---
	s.AddTool(mcp.NewTool("get_scoring_metrics",
		mcp.WithDescription("Return the effective factor weights and severity bands used for scoring."),
	), h.handleGetScoringMetrics)

	return s
}

// StartMCPServer starts the deltascan MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.RunStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
