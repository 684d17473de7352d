// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/planhorizon/stockcast/internal/contract"
)

// NewMCPServer creates and configures the MCP server with all tools registered.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Stockcast Planning Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{baseCfg: baseCfg, mgr: mgr}

	// --- 1. Tool: project_inventory ---
	s.AddTool(mcp.NewTool("project_inventory",
		mcp.WithDescription("Project closing inventory and forward coverage per entity and period from a CSV dataset"),
		mcp.WithString("input_path",
			mcp.Description("Path to the input CSV file"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entities to return"),
		),
	), h.handleProjectInventory)

	// --- 2. Tool: analyze_stock_policy ---
	s.AddTool(mcp.NewTool("analyze_stock_policy",
		mcp.WithDescription("Classify each entity and period against its safety and maximum stock levels"),
		mcp.WithString("input_path",
			mcp.Description("Path to the input CSV file"),
			mcp.Required(),
		),
		mcp.WithNumber("min_cov",
			mcp.Description("Coverage periods defining the safety stock level"),
		),
		mcp.WithNumber("max_cov",
			mcp.Description("Coverage periods defining the maximum stock level"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entities to return"),
		),
	), h.handleAnalyzeStockPolicy)

	// --- 3. Tool: plan_replenishment ---
	s.AddTool(mcp.NewTool("plan_replenishment",
		mcp.WithDescription("Suggest replenishment orders per entity and period under frozen and free horizons"),
		mcp.WithString("input_path",
			mcp.Description("Path to the input CSV file"),
			mcp.Required(),
		),
		mcp.WithNumber("safety_cov",
			mcp.Description("Coverage periods the plan keeps on hand as safety stock"),
		),
		mcp.WithNumber("replen_duration",
			mcp.Description("Number of periods each suggested order covers"),
		),
		mcp.WithNumber("moq",
			mcp.Description("Minimum order quantity that suggestions are rounded up to"),
		),
		mcp.WithNumber("frozen",
			mcp.Description("Number of leading frozen periods when the input has no horizon column"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entities to return"),
		),
	), h.handlePlanReplenishment)

	return s
}

// StartMCPServer starts the MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
