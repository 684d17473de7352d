package cmd

import (
	"github.com/planhorizon/stockcast/core"
	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/spf13/cobra"
)

// planCmd focused on replenishment planning.
var planCmd = &cobra.Command{
	Use:   "plan <dataset.csv>",
	Short: "Suggest replenishment orders that keep stock above the safety level",
	Long: `Walk each entity's horizon forward and suggest replenishment orders.

A free period whose running balance falls below the safety threshold triggers
an order. Orders are sized to cover --replen-duration periods of demand from
the trigger onward, raised to the safety threshold when that window is small,
and rounded up to a whole multiple of --moq. Each order feeds the balance of
later periods, so one order can clear several upcoming triggers.

Frozen periods never receive orders. A dataset horizon column (frozen/free)
takes priority; without one, --frozen marks the first N periods of every
entity as frozen to model supplier lead time.

Use cases:
- Produce a first-cut DRP order proposal per SKU and location
- Respect lead time by freezing the near horizon
- Batch orders into pallet or container multiples with --moq

Examples:
  # Plan with a one-period safety target
  stockcast plan demand.csv

  # Two frozen weeks of lead time, orders in multiples of 50
  stockcast plan demand.csv --interval weekly --frozen 2 --moq 50

  # Fewer, bigger orders that each cover a month of demand
  stockcast plan demand.csv --replen-duration 4 --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePlan(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run replenishment planning", err)
		}
	},
}
