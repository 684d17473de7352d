package core

import (
	"github.com/planhorizon/stockcast/schema"
)

// ProjectSeries runs the inventory recurrence over a normalized series and
// derives forward coverage for every period. The first period starts from
// opening inventory; each period then carries the prior balance forward, adds
// scheduled supply and subtracts demand. Pure function, never mutates rows.
func ProjectSeries(entityID string, rows []schema.PeriodRow) ([]schema.ProjectionRow, error) {
	if len(rows) == 0 {
		return nil, &schema.InvalidSeriesError{EntityID: entityID}
	}

	out := make([]schema.ProjectionRow, len(rows))
	balance := rows[0].OpeningInventory
	for i, row := range rows {
		balance += row.ScheduledSupply - row.Demand
		out[i] = schema.ProjectionRow{
			EntityID:           entityID,
			Period:             row.Period,
			Demand:             row.Demand,
			ScheduledSupply:    row.ScheduledSupply,
			ProjectedInventory: balance,
		}
	}

	for i := range out {
		out[i].Coverage = forwardCoverage(out[i].ProjectedInventory, rows, i)
	}

	return out, nil
}

// forwardCoverage counts the future periods of demand that the inventory held
// at position idx can satisfy. Whole periods count as 1, a partially covered
// period contributes its satisfied fraction, and inventory that outlives the
// remaining demand maps to the beyond-horizon sentinel. Exact exhaustion on a
// period boundary is finite coverage.
func forwardCoverage(available float64, rows []schema.PeriodRow, idx int) schema.Coverage {
	if available <= 0 {
		return schema.Coverage(0)
	}

	var covered float64
	for _, row := range rows[idx+1:] {
		demand := row.Demand
		if demand <= 0 {
			covered++
			continue
		}
		if available < demand {
			return schema.Coverage(covered + available/demand)
		}
		available -= demand
		covered++
		if available == 0 {
			return schema.Coverage(covered)
		}
	}

	return schema.BeyondHorizon
}
