package schema

// EntityDelta captures how one entity moved between a base scenario run and
// a revised one. Coverage fields are pointers so an entity missing from one
// side renders as blank instead of a fake zero.
type EntityDelta struct {
	EntityID string `json:"entity_id"`
	Status   Status `json:"status"`

	DeltaShortagePeriods int     `json:"delta_shortage_periods"`
	DeltaAlertPeriods    int     `json:"delta_alert_periods"`
	DeltaSuggestedQty    float64 `json:"delta_suggested_qty"`
	DeltaClosingPI       float64 `json:"delta_closing_inventory"`

	BaseMinCoverage    *Coverage `json:"base_min_coverage,omitempty"`
	RevisedMinCoverage *Coverage `json:"revised_min_coverage,omitempty"`
}

// ComparisonSummary aggregates the per-entity deltas of a scenario diff.
type ComparisonSummary struct {
	NetSuggestedQtyDelta   float64 `json:"net_suggested_qty_delta"`
	NetShortagePeriodDelta int     `json:"net_shortage_period_delta"`
	NetAlertPeriodDelta    int     `json:"net_alert_period_delta"`
	TotalNewEntities       int     `json:"total_new_entities"`
	TotalDroppedEntities   int     `json:"total_dropped_entities"`
	TotalCommonEntities    int     `json:"total_common_entities"`
}

// ScenarioComparison is the full diff between a base and a revised run.
type ScenarioComparison struct {
	Mode    RunMode           `json:"mode"`
	Results []EntityDelta     `json:"results"`
	Summary ComparisonSummary `json:"summary"`
}
