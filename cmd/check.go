package cmd

import (
	"github.com/planhorizon/stockcast/core"
	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check <dataset.csv>",
	Short: "Enforce plan health thresholds for CI/CD pipelines (fails build on violations)",
	Long: `Run a projection and enforce plan health thresholds against the results.

Designed for CI/CD integration - exits non-zero when any entity violates a
threshold, so a pipeline can block a demand plan from being published.

Thresholds:
- --max-shortage-periods  most shortage periods allowed per entity (-1 disables)
- --max-alert-periods     most alert periods allowed per entity (-1 disables)
- --min-coverage-floor    lowest forward coverage allowed anywhere (0 disables)

Alert periods and the coverage floor are evaluated against the --min-cov band,
so pair them with --mode policy when gating on policy results.

Use cases:
- Block a plan upload that projects stockouts
- Keep service level regressions out of the master plan
- Validate scenario files before they reach planners

Examples:
  # Fail when any entity has a projected shortage
  stockcast check forecast.csv

  # Tolerate two shortage periods, require half a period of coverage
  stockcast check forecast.csv --max-shortage-periods 2 --min-coverage-floor 0.5

  # Gate on policy alerts as well
  stockcast check forecast.csv --mode policy --max-alert-periods 3`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		// Threshold evaluation is done in ExecuteCheck
		if err := core.ExecuteCheck(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Plan check failed", err)
		}
	},
}
