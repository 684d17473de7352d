package cmd

import (
	"github.com/planhorizon/stockcast/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Stockcast MCP server",
	Long: `Launch an MCP server that allows AI agents to run planning analyses via standard tools.

The server speaks the Model Context Protocol over stdio and exposes:
- project_inventory     - time-phased projection with forward coverage
- analyze_stock_policy  - min/max coverage band classification
- plan_replenishment    - replenishment order suggestions

Flags and config files provide the defaults; every tool call can override the
dataset path and its mode's parameters per request. Headers are only printed
for terminal output, so the protocol stream stays clean.`,
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
