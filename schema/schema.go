// Package schema has models, enums and shared helpers for all parts of stockcast.
package schema

import "time"

// PeriodRow is one input observation for an entity in one period.
// Pointer fields are optional per-entity parameter overrides carried from the
// input table; nil means the global configuration value applies.
type PeriodRow struct {
	EntityID         string    // Demand forecast unit identifier
	Period           time.Time // Date bucket, unique per entity
	Demand           float64   // Forecast or actual demand, >= 0
	OpeningInventory float64   // Known starting stock, first period only
	ScheduledSupply  float64   // Supply arriving during the period, >= 0

	MinCoverage    *float64      // Policy mode: minimum coverage target in periods
	MaxCoverage    *float64      // Policy mode: maximum coverage target in periods
	SafetyCoverage *float64      // Plan mode: safety stock coverage in periods
	ReplenDuration *int          // Plan mode: periods of demand one order should cover
	MOQ            *float64      // Plan mode: minimum order quantity
	Horizon        HorizonStatus // Plan mode: frozen or free, empty when absent

	Incomplete bool // A mode-required cell was blank upstream
}

// ProjectionRow is the projection output for one entity period.
type ProjectionRow struct {
	EntityID           string    `json:"entity_id"`
	Period             time.Time `json:"period"`
	Demand             float64   `json:"demand"`
	ScheduledSupply    float64   `json:"scheduled_supply"`
	ProjectedInventory float64   `json:"projected_inventory"`
	Coverage           Coverage  `json:"coverage_periods"`
}

// PolicyRow extends a projection row with min/max stock analysis.
type PolicyRow struct {
	ProjectionRow
	SafetyStockQty  float64        `json:"safety_stock_qty"`
	MaximumStockQty float64        `json:"maximum_stock_qty"`
	Classification  Classification `json:"classification"`
	SafetyRatio     Ratio          `json:"safety_ratio"`
	MaximumRatio    Ratio          `json:"maximum_ratio"`
}

// PlanRow is the replenishment output for one entity period. Inventory and
// coverage are post-replenishment values, re-derived after order injection.
type PlanRow struct {
	EntityID           string        `json:"entity_id"`
	Period             time.Time     `json:"period"`
	Demand             float64       `json:"demand"`
	ScheduledSupply    float64       `json:"scheduled_supply"`
	Horizon            HorizonStatus `json:"horizon_status"`
	SuggestedQty       float64       `json:"suggested_replenishment_qty"`
	ProjectedInventory float64       `json:"projected_inventory"`
	Coverage           Coverage      `json:"coverage_periods"`
}

// Dataset maps entity IDs to their raw period rows as loaded from input.
type Dataset map[string][]PeriodRow

// EntityResult holds one entity's derived rows. Only the slice matching the
// run mode is populated.
type EntityResult struct {
	EntityID   string          `json:"entity_id"`
	Projection []ProjectionRow `json:"projection,omitempty"`
	Policy     []PolicyRow     `json:"policy,omitempty"`
	Plan       []PlanRow       `json:"plan,omitempty"`
}

// EntityError records a per-entity failure inside a batch run.
type EntityError struct {
	EntityID string
	Err      error
}

// BatchResult is the fan-in of a batch run: successful entities plus the
// per-entity error list. A failed entity never aborts the others.
// RunID is non-zero when the run was recorded to a plan store.
type BatchResult struct {
	Mode    RunMode
	RunID   int64
	Results []EntityResult
	Errors  []EntityError
}

// PeriodCount returns the total number of derived rows across all entities.
func (br *BatchResult) PeriodCount() int {
	total := 0
	for _, r := range br.Results {
		total += len(r.Projection) + len(r.Policy) + len(r.Plan)
	}
	return total
}
