package cmd

import (
	"github.com/planhorizon/stockcast/core"
	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd summarizes a whole batch into headline numbers.
var metricsCmd = &cobra.Command{
	Use:   "metrics <dataset.csv>",
	Short: "Summarize a dataset into headline plan health numbers",
	Long: `Run a projection and reduce it to one summary instead of per-period rows.

The summary includes:
- Entity and period counts, plus entities that failed to load
- Total demand and total scheduled supply
- Negative (shortage) periods and entities that hit one
- Average and minimum forward coverage across finite periods
- Classification counts per class when run with --mode policy
- Suggested order count and quantity when run with --mode plan

Use this to:
- Health-check a new dataset before deeper analysis
- Track one number per plan revision in a dashboard
- Compare demand load across scenario files quickly

Examples:
  # Headline numbers for a dataset
  stockcast metrics demand.csv

  # Policy summary with classification counts
  stockcast metrics demand.csv --mode policy

  # Plan summary as JSON for dashboards
  stockcast metrics demand.csv --mode plan --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot summarize dataset", err)
		}
	},
}
