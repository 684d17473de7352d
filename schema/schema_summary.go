package schema

// PlanSummary aggregates a batch run into headline numbers for the metrics
// command and table footers.
type PlanSummary struct {
	Mode           RunMode `json:"mode"`
	Entities       int     `json:"entities"`
	FailedEntities int     `json:"failed_entities"`
	Periods        int     `json:"periods"`

	ClassCounts      map[Classification]int `json:"class_counts,omitempty"`
	ShortageEntities int                    `json:"shortage_entities"`
	AlertEntities    int                    `json:"alert_entities"`

	NegativePeriods      int      `json:"negative_periods"`
	BeyondHorizonPeriods int      `json:"beyond_horizon_periods"`
	MinCoverage          Coverage `json:"min_coverage"`
	AvgCoverage          float64  `json:"avg_coverage"` // finite coverage rows only

	TotalDemand       float64 `json:"total_demand"`
	TotalSupply       float64 `json:"total_supply"`
	TotalSuggestedQty float64 `json:"total_suggested_qty"`
	SuggestedOrders   int     `json:"suggested_orders"`
	FrozenPeriods     int     `json:"frozen_periods"`
}
