package core

import (
	"math"
	"sort"
	"strings"

	"github.com/planhorizon/stockcast/schema"
)

// entityStats are the comparison-relevant numbers extracted from one entity's
// rows in a single scenario run.
type entityStats struct {
	shortagePeriods int
	alertPeriods    int
	suggestedQty    float64
	closingPI       float64
	minCoverage     *schema.Coverage
}

// CompareScenarios matches entities from a base run against a revised run and
// computes the movement in shortage pressure, alert pressure, suggested
// quantity and closing inventory. Entities whose numbers did not move are
// omitted unless they appeared or disappeared.
func CompareScenarios(base, revised *schema.BatchResult, limit int) schema.ScenarioComparison {
	baseMap := make(map[string]entityStats, len(base.Results))
	revisedMap := make(map[string]entityStats, len(revised.Results))
	allIDs := make(map[string]struct{})

	// 1. Populate maps and collect all entity IDs
	for i := range base.Results {
		baseMap[base.Results[i].EntityID] = extractEntityStats(&base.Results[i])
		allIDs[base.Results[i].EntityID] = struct{}{}
	}
	for i := range revised.Results {
		revisedMap[revised.Results[i].EntityID] = extractEntityStats(&revised.Results[i])
		allIDs[revised.Results[i].EntityID] = struct{}{}
	}

	deltas := make([]schema.EntityDelta, 0, len(allIDs))
	var summary schema.ComparisonSummary

	// 2. Compare all entities
	for id := range allIDs {
		baseStats, baseExists := baseMap[id]
		revisedStats, revisedExists := revisedMap[id]

		status := determineEntityStatus(baseExists, revisedExists)
		switch status {
		case schema.NewStatus:
			summary.TotalNewEntities++
		case schema.ActiveStatus:
			summary.TotalCommonEntities++
		case schema.InactiveStatus:
			summary.TotalDroppedEntities++
		}

		delta := schema.EntityDelta{
			EntityID:             id,
			Status:               status,
			DeltaShortagePeriods: revisedStats.shortagePeriods - baseStats.shortagePeriods,
			DeltaAlertPeriods:    revisedStats.alertPeriods - baseStats.alertPeriods,
			DeltaSuggestedQty:    revisedStats.suggestedQty - baseStats.suggestedQty,
			DeltaClosingPI:       revisedStats.closingPI - baseStats.closingPI,
		}
		if baseExists {
			delta.BaseMinCoverage = baseStats.minCoverage
		}
		if revisedExists {
			delta.RevisedMinCoverage = revisedStats.minCoverage
		}

		summary.NetSuggestedQtyDelta += delta.DeltaSuggestedQty
		summary.NetShortagePeriodDelta += delta.DeltaShortagePeriods
		summary.NetAlertPeriodDelta += delta.DeltaAlertPeriods

		// Only include unchanged common entities when something moved
		if status == schema.ActiveStatus && !deltaIsSignificant(delta) {
			continue
		}
		deltas = append(deltas, delta)
	}

	// 3. Sort by movement, then entity ID
	sortEntityDeltas(deltas)

	// 4. Apply limit
	if limit > 0 && len(deltas) > limit {
		deltas = deltas[:limit]
	}

	return schema.ScenarioComparison{Mode: revised.Mode, Results: deltas, Summary: summary}
}

// extractEntityStats reads whichever row slice the run mode populated.
func extractEntityStats(result *schema.EntityResult) entityStats {
	var stats entityStats
	var minCov schema.Coverage = schema.BeyondHorizon
	sawPeriod := false

	observe := func(inventory float64, coverage schema.Coverage) {
		sawPeriod = true
		stats.closingPI = inventory
		if inventory < 0 {
			stats.shortagePeriods++
		}
		if coverage < minCov {
			minCov = coverage
		}
	}

	for _, row := range result.Projection {
		observe(row.ProjectedInventory, row.Coverage)
	}
	for _, row := range result.Policy {
		observe(row.ProjectedInventory, row.Coverage)
		if row.Classification == schema.AlertClass {
			stats.alertPeriods++
		}
	}
	for _, row := range result.Plan {
		observe(row.ProjectedInventory, row.Coverage)
		stats.suggestedQty += row.SuggestedQty
	}

	if sawPeriod {
		stats.minCoverage = &minCov
	}
	return stats
}

// determineEntityStatus returns the status based on existence in base and revised.
func determineEntityStatus(baseExists, revisedExists bool) schema.Status {
	switch {
	case !baseExists && revisedExists:
		return schema.NewStatus
	case baseExists && revisedExists:
		return schema.ActiveStatus
	case baseExists:
		return schema.InactiveStatus
	default:
		return schema.UnknownStatus
	}
}

// deltaIsSignificant reports whether any tracked number moved.
func deltaIsSignificant(delta schema.EntityDelta) bool {
	return delta.DeltaShortagePeriods != 0 ||
		delta.DeltaAlertPeriods != 0 ||
		math.Abs(delta.DeltaSuggestedQty) > 1e-9 ||
		math.Abs(delta.DeltaClosingPI) > 1e-9
}

// sortEntityDeltas sorts by absolute suggested-qty movement, then absolute
// closing inventory movement, then entity ID.
func sortEntityDeltas(deltas []schema.EntityDelta) {
	sort.Slice(deltas, func(i, j int) bool {
		a := deltas[i]
		b := deltas[j]

		absA := math.Abs(a.DeltaSuggestedQty)
		absB := math.Abs(b.DeltaSuggestedQty)
		if absA != absB {
			return absA > absB
		}

		piA := math.Abs(a.DeltaClosingPI)
		piB := math.Abs(b.DeltaClosingPI)
		if piA != piB {
			return piA > piB
		}

		return strings.Compare(a.EntityID, b.EntityID) < 0
	})
}
