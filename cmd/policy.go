package cmd

import (
	"github.com/planhorizon/stockcast/core"
	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/spf13/cobra"
)

// policyCmd focused on stock policy analysis.
var policyCmd = &cobra.Command{
	Use:   "policy <dataset.csv>",
	Short: "Classify projected stock against a min/max coverage band",
	Long: `Analyze projected inventory against a stock policy expressed in coverage periods.

The band is set by --min-cov (safety level) and --max-cov (maximum level), both
measured in periods of forward demand. Thresholds scale with each period's own
demand, so the same band adapts to fast and slow movers. Every period gets one
classification:

- TBC       - input data for the period is incomplete
- Shortage  - projected inventory is negative
- OverStock - projected inventory exceeds the maximum level
- Alert     - projected inventory is below the safety level
- OK        - projected inventory sits inside the band

Use cases:
- Find SKUs drifting above their maximum stock level
- Catch safety stock erosion before it becomes a shortage
- Rank locations by how well they track their policy band

Examples:
  # Analyze with the default 1-3 period band
  stockcast policy demand.csv

  # Tighter band for fast movers
  stockcast policy demand.csv --min-cov 0.5 --max-cov 2

  # Policy findings for one product family as CSV
  stockcast policy demand.csv --entity "SKU-7*" --output csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePolicy(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run policy analysis", err)
		}
	},
}
