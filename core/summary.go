package core

import (
	"github.com/planhorizon/stockcast/schema"
)

// Summarize reduces a batch result to headline numbers for the metrics
// command and table footers. Average coverage considers finite rows only;
// beyond-horizon rows are tallied separately.
func Summarize(batch *schema.BatchResult) schema.PlanSummary {
	summary := schema.PlanSummary{
		Mode:           batch.Mode,
		Entities:       len(batch.Results),
		FailedEntities: len(batch.Errors),
		MinCoverage:    schema.BeyondHorizon,
	}
	if batch.Mode == schema.PolicyMode {
		summary.ClassCounts = make(map[schema.Classification]int)
	}

	var coverageSum float64
	var coverageCount int

	observeCoverage := func(c schema.Coverage) {
		if c.IsBeyondHorizon() {
			summary.BeyondHorizonPeriods++
			return
		}
		if c < summary.MinCoverage {
			summary.MinCoverage = c
		}
		coverageSum += float64(c)
		coverageCount++
	}

	for _, result := range batch.Results {
		hadShortage := false
		hadAlert := false

		for _, row := range result.Projection {
			summary.Periods++
			summary.TotalDemand += row.Demand
			summary.TotalSupply += row.ScheduledSupply
			if row.ProjectedInventory < 0 {
				summary.NegativePeriods++
				hadShortage = true
			}
			observeCoverage(row.Coverage)
		}

		for _, row := range result.Policy {
			summary.Periods++
			summary.TotalDemand += row.Demand
			summary.TotalSupply += row.ScheduledSupply
			summary.ClassCounts[row.Classification]++
			switch row.Classification {
			case schema.ShortageClass:
				hadShortage = true
			case schema.AlertClass:
				hadAlert = true
			}
			if row.ProjectedInventory < 0 {
				summary.NegativePeriods++
			}
			observeCoverage(row.Coverage)
		}

		for _, row := range result.Plan {
			summary.Periods++
			summary.TotalDemand += row.Demand
			summary.TotalSupply += row.ScheduledSupply
			if row.SuggestedQty > 0 {
				summary.TotalSuggestedQty += row.SuggestedQty
				summary.SuggestedOrders++
			}
			if row.Horizon == schema.FrozenHorizon {
				summary.FrozenPeriods++
			}
			if row.ProjectedInventory < 0 {
				summary.NegativePeriods++
				hadShortage = true
			}
			observeCoverage(row.Coverage)
		}

		if hadShortage {
			summary.ShortageEntities++
		}
		if hadAlert {
			summary.AlertEntities++
		}
	}

	if coverageCount > 0 {
		summary.AvgCoverage = coverageSum / float64(coverageCount)
	}
	if summary.Periods == 0 {
		summary.MinCoverage = 0
	}

	return summary
}
