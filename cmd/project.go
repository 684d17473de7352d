package cmd

import (
	"github.com/planhorizon/stockcast/core"
	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/spf13/cobra"
)

// projectCmd focused on time-phased inventory projection.
var projectCmd = &cobra.Command{
	Use:   "project <dataset.csv>",
	Short: "Project inventory balances and forward coverage per period",
	Long: `Compute the time-phased projected inventory for every entity in a dataset.

Each period starts from the previous closing balance, adds scheduled supply and
subtracts demand. Forward coverage counts how many future periods the closing
balance can still satisfy, with partial periods as fractions.

The dataset is a CSV with entity_id, period and demand columns, plus optional
supply, opening_inventory and horizon columns. Rows with a blank demand cell
are carried through and marked TBC instead of failing the entity.

Use cases:
- Spot future stockouts before they hit the warehouse
- Review the demand/supply balance per SKU or location
- Feed projections into spreadsheets and BI tools via csv/json output

Examples:
  # Project a dataset, filling weekly gaps with zero-demand periods
  stockcast project demand.csv --interval weekly

  # Only entities matching a pattern, as JSON
  stockcast project demand.csv --entity "SKU-1*" --output json

  # Write the full projection to a file
  stockcast project demand.csv --limit 1000 --output csv --output-file projection.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteProjection(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run inventory projection", err)
		}
	},
}
