package schema

import "time"

// PlanRunRecord represents a row from the stockcast_plan_runs table.
type PlanRunRecord struct {
	RunID         int64
	Mode          string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalEntities int32
	ConfigParams  *string
}

// PlanRowRecord represents a row from the stockcast_plan_rows table.
// Coverage is NULL when inventory outlasts the horizon, so the record
// stays expressible in backends that reject non-finite doubles.
type PlanRowRecord struct {
	RunID              int64
	EntityID           string
	Period             time.Time
	Demand             float64
	ScheduledSupply    float64
	ProjectedInventory float64
	Coverage           *float64
	SafetyStockQty     *float64
	MaximumStockQty    *float64
	Classification     *string
	SuggestedQty       *float64
	HorizonStatus      *string
}

// StoreStatus represents the status of the plan store.
type StoreStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalRows     int              `json:"total_rows"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
