package cmd

import (
	"errors"

	"github.com/planhorizon/stockcast/core"
	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/spf13/cobra"
)

// checkCompareAndExecute validates comparison inputs and executes the provided function.
func checkCompareAndExecute(executeFunc core.ExecutorFunc) {
	if cfg.BaseInputPath == "" || cfg.InputPath == "" {
		contract.LogFatal("Cannot run comparison", errors.New("comparison requires a base dataset argument and the --revised flag"))
	}
	if err := executeFunc(rootCtx, cfg, storeManager); err != nil {
		contract.LogFatal("Cannot run comparison", err)
	}
}

// compareCmd diffs two scenario datasets entity by entity.
var compareCmd = &cobra.Command{
	Use:   "compare <base.csv> --revised <revised.csv>",
	Short: "Compare two scenario datasets and rank entities by plan impact",
	Long: `Run the same analysis over a base and a revised dataset and diff the results.

Both scenarios run in the mode given by --mode (project, policy or plan). For
every entity present in both datasets the comparison reports the change in
closing inventory, shortage periods, alert periods and suggested order
quantity, plus a direction per entity. Entities present in only one scenario
are counted separately. Entities with no change are dropped from the listing,
and the rest are ranked by absolute order quantity impact, then by closing
inventory impact.

Use cases:
- Quantify a forecast revision before publishing it
- See which SKUs a supply cut actually hurts
- Review what a policy change does to order volumes

Examples:
  # Diff two forecast revisions
  stockcast compare january.csv --revised february.csv

  # Impact of a revision on replenishment orders
  stockcast compare january.csv --revised february.csv --mode plan

  # Full comparison as JSON
  stockcast compare january.csv --revised february.csv --limit 500 --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		checkCompareAndExecute(core.ExecuteCompare)
	},
}
