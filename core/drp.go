package core

import (
	"fmt"
	"math"

	"github.com/planhorizon/stockcast/schema"
)

// PlanParams hold the replenishment parameters for DRP planning.
type PlanParams struct {
	SafetyCoverage float64 // safety threshold in periods of current demand
	ReplenDuration int     // periods of forward demand one order should cover
	MOQ            float64 // minimum order quantity, orders are multiples of it
}

func (p PlanParams) validate() error {
	if p.SafetyCoverage < 0 {
		return &schema.ConfigurationError{Reason: fmt.Sprintf("safety coverage %.2f is negative", p.SafetyCoverage)}
	}
	if p.ReplenDuration < 1 {
		return &schema.ConfigurationError{Reason: fmt.Sprintf("replenishment duration %d is below one period", p.ReplenDuration)}
	}
	if p.MOQ <= 0 {
		return &schema.ConfigurationError{Reason: fmt.Sprintf("moq %.2f must be positive", p.MOQ)}
	}
	return nil
}

// PlanSeries walks a normalized series strictly forward and suggests
// replenishment orders for free periods whose running balance falls below the
// safety threshold. Frozen periods never receive orders and carry their
// balance forward untouched. Each fixed order is injected as supply before
// later periods are evaluated, so one order can clear several upcoming
// triggers. Suggested orders are sized to cover ReplenDuration periods of
// demand starting at the trigger period, raised to the safety threshold when
// that window is smaller, and rounded up to a whole multiple of MOQ.
func PlanSeries(entityID string, rows []schema.PeriodRow, params PlanParams, horizon []schema.HorizonStatus) ([]schema.PlanRow, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &schema.InvalidSeriesError{EntityID: entityID}
	}
	if err := validateHorizon(entityID, rows, horizon); err != nil {
		return nil, err
	}

	orders := make([]float64, len(rows))
	for t := range rows {
		if horizon[t] == schema.FrozenHorizon {
			continue
		}

		balance := replayBalance(rows, orders, t)
		threshold := params.SafetyCoverage * rows[t].Demand
		if balance >= threshold {
			continue
		}

		target := math.Max(demandWindow(rows, t, params.ReplenDuration), threshold)
		shortfall := target - balance
		if shortfall <= 0 {
			continue
		}
		orders[t] = roundUpToMOQ(shortfall, params.MOQ)
	}

	return buildPlanRows(entityID, rows, horizon, orders)
}

// validateHorizon checks the horizon grid covers every period with a known status.
func validateHorizon(entityID string, rows []schema.PeriodRow, horizon []schema.HorizonStatus) error {
	if len(horizon) != len(rows) {
		return &schema.InvalidHorizonError{
			EntityID: entityID,
			Reason:   fmt.Sprintf("horizon has %d statuses for %d periods", len(horizon), len(rows)),
		}
	}
	for i, status := range horizon {
		if _, ok := schema.ValidHorizonStatuses[status]; !ok {
			return &schema.InvalidHorizonError{
				EntityID: entityID,
				Reason:   fmt.Sprintf("period %s has status %q", schema.FormatPeriod(rows[i].Period), string(status)),
			}
		}
	}
	return nil
}

// replayBalance re-runs the inventory recurrence from the opening balance up
// to and including period t, with every order fixed so far injected as
// supply. Replaying from scratch keeps order injection effects exact instead
// of patching a cached balance in place.
func replayBalance(rows []schema.PeriodRow, orders []float64, t int) float64 {
	balance := rows[0].OpeningInventory
	for i := 0; i <= t; i++ {
		balance += rows[i].ScheduledSupply + orders[i] - rows[i].Demand
	}
	return balance
}

// demandWindow sums demand over [t, t+duration), truncated at the series end.
func demandWindow(rows []schema.PeriodRow, t, duration int) float64 {
	end := min(t+duration, len(rows))
	var total float64
	for i := t; i < end; i++ {
		total += rows[i].Demand
	}
	return total
}

// roundUpToMOQ rounds a positive quantity up to the next whole multiple of
// moq. Any positive shortfall orders at least one full MOQ. The epsilon keeps
// float division noise from adding a spurious extra multiple.
func roundUpToMOQ(qty, moq float64) float64 {
	multiples := math.Ceil(qty/moq - 1e-9)
	if multiples < 1 {
		multiples = 1
	}
	return multiples * moq
}

// buildPlanRows folds the fixed orders into the series as supply and
// re-derives inventory and coverage on the final shape.
func buildPlanRows(entityID string, rows []schema.PeriodRow, horizon []schema.HorizonStatus, orders []float64) ([]schema.PlanRow, error) {
	adjusted := make([]schema.PeriodRow, len(rows))
	copy(adjusted, rows)
	for i := range adjusted {
		adjusted[i].ScheduledSupply += orders[i]
	}

	projection, err := ProjectSeries(entityID, adjusted)
	if err != nil {
		return nil, err
	}

	out := make([]schema.PlanRow, len(rows))
	for i, proj := range projection {
		out[i] = schema.PlanRow{
			EntityID:           entityID,
			Period:             rows[i].Period,
			Demand:             rows[i].Demand,
			ScheduledSupply:    rows[i].ScheduledSupply,
			Horizon:            horizon[i],
			SuggestedQty:       orders[i],
			ProjectedInventory: proj.ProjectedInventory,
			Coverage:           proj.Coverage,
		}
	}
	return out, nil
}
