package schema

import "fmt"

// GateThresholds hold the limits enforced by the check command.
type GateThresholds struct {
	MaxShortagePeriods int      `json:"max_shortage_periods"`
	MaxAlertPeriods    int      `json:"max_alert_periods"`
	MinCoverage        Coverage `json:"min_coverage"`
}

// GateViolation is one threshold breach found during a gated run.
type GateViolation struct {
	EntityID string `json:"entity_id"`
	Reason   string `json:"reason"`
}

func (v GateViolation) String() string {
	return fmt.Sprintf("%s: %s", v.EntityID, v.Reason)
}

// GateResult reports whether a batch run passed its thresholds.
type GateResult struct {
	Passed     bool            `json:"passed"`
	Violations []GateViolation `json:"violations,omitempty"`
	Summary    PlanSummary     `json:"summary"`
}
