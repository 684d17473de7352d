package core

import (
	"fmt"
	"sort"

	"github.com/planhorizon/stockcast/schema"
)

// Gate checks a batch result against failure thresholds for CI-style gating.
// A threshold of -1 disables that limit; a coverage floor of 0 disables the
// floor. Entities that failed to run at all always count as violations.
func Gate(batch *schema.BatchResult, thresholds schema.GateThresholds) schema.GateResult {
	result := schema.GateResult{Summary: Summarize(batch)}

	for i := range batch.Results {
		entity := &batch.Results[i]
		stats := extractEntityStats(entity)

		if thresholds.MaxShortagePeriods >= 0 && stats.shortagePeriods > thresholds.MaxShortagePeriods {
			result.Violations = append(result.Violations, schema.GateViolation{
				EntityID: entity.EntityID,
				Reason: fmt.Sprintf("%d shortage periods exceed limit %d",
					stats.shortagePeriods, thresholds.MaxShortagePeriods),
			})
		}
		if thresholds.MaxAlertPeriods >= 0 && stats.alertPeriods > thresholds.MaxAlertPeriods {
			result.Violations = append(result.Violations, schema.GateViolation{
				EntityID: entity.EntityID,
				Reason: fmt.Sprintf("%d alert periods exceed limit %d",
					stats.alertPeriods, thresholds.MaxAlertPeriods),
			})
		}
		if thresholds.MinCoverage > 0 && stats.minCoverage != nil && *stats.minCoverage < thresholds.MinCoverage {
			result.Violations = append(result.Violations, schema.GateViolation{
				EntityID: entity.EntityID,
				Reason: fmt.Sprintf("minimum coverage %s below floor %s",
					stats.minCoverage.Format(2), thresholds.MinCoverage.Format(2)),
			})
		}
	}

	for _, entityErr := range batch.Errors {
		result.Violations = append(result.Violations, schema.GateViolation{
			EntityID: entityErr.EntityID,
			Reason:   fmt.Sprintf("run failed: %v", entityErr.Err),
		})
	}

	sort.Slice(result.Violations, func(i, j int) bool {
		if result.Violations[i].EntityID != result.Violations[j].EntityID {
			return result.Violations[i].EntityID < result.Violations[j].EntityID
		}
		return result.Violations[i].Reason < result.Violations[j].Reason
	})

	result.Passed = len(result.Violations) == 0
	return result
}
