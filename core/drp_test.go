package core

import (
	"errors"
	"math"
	"testing"

	"github.com/planhorizon/stockcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// horizonGrid expands a frozen prefix length into a full horizon slice.
func horizonGrid(frozen, total int) []schema.HorizonStatus {
	grid := make([]schema.HorizonStatus, total)
	for i := range grid {
		if i < frozen {
			grid[i] = schema.FrozenHorizon
		} else {
			grid[i] = schema.FreeHorizon
		}
	}
	return grid
}

func TestPlanSeriesFrozenThenFree(t *testing.T) {
	// Two frozen periods ride the shortage down to -150; the first free
	// period orders back above the safety threshold in MOQ multiples.
	rows := seriesRows("SKU1@DC1", 150, []float64{100, 100, 100}, nil)
	params := PlanParams{SafetyCoverage: 1, ReplenDuration: 1, MOQ: 50}

	got, err := PlanSeries("SKU1@DC1", rows, params, horizonGrid(2, 3))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []float64{0, 0, 250}, []float64{got[0].SuggestedQty, got[1].SuggestedQty, got[2].SuggestedQty})

	// Post-replenishment ledger: untouched shortage inside the frozen
	// stretch, restored threshold once planning opens up.
	assert.InDelta(t, 50, got[0].ProjectedInventory, 1e-9)
	assert.InDelta(t, -50, got[1].ProjectedInventory, 1e-9)
	assert.InDelta(t, 100, got[2].ProjectedInventory, 1e-9)
	assert.GreaterOrEqual(t, got[2].ProjectedInventory, params.SafetyCoverage*got[2].Demand)

	assert.Equal(t, schema.Coverage(0), got[1].Coverage)
	assert.True(t, got[2].Coverage.IsBeyondHorizon())
}

func TestPlanSeriesNeverOrdersWhenFrozen(t *testing.T) {
	// A fully frozen horizon leaves even a deep shortage untouched.
	rows := seriesRows("SKU1@DC1", 0, []float64{100, 200, 300}, nil)

	got, err := PlanSeries("SKU1@DC1", rows, PlanParams{SafetyCoverage: 1, ReplenDuration: 1, MOQ: 1}, horizonGrid(3, 3))
	require.NoError(t, err)

	for i, row := range got {
		assert.Zero(t, row.SuggestedQty, "period %d", i)
	}
	assert.InDelta(t, -600, got[2].ProjectedInventory, 1e-9)
}

func TestPlanSeriesOrderCoversWindow(t *testing.T) {
	// With a two-period duration the first order also pre-covers the second
	// period, so no second order triggers.
	rows := seriesRows("SKU1@DC1", 0, []float64{30, 20, 10}, nil)

	got, err := PlanSeries("SKU1@DC1", rows, PlanParams{SafetyCoverage: 1, ReplenDuration: 2, MOQ: 1}, horizonGrid(0, 3))
	require.NoError(t, err)

	assert.Equal(t, 80.0, got[0].SuggestedQty, "30 shortfall plus the 50-unit window")
	assert.Zero(t, got[1].SuggestedQty)
	assert.Zero(t, got[2].SuggestedQty)
}

func TestPlanSeriesOneOrderClearsLaterTriggers(t *testing.T) {
	// Once injected, an order's supply flows forward through the ledger.
	rows := seriesRows("SKU1@DC1", 100, []float64{100, 100, 100}, nil)

	got, err := PlanSeries("SKU1@DC1", rows, PlanParams{SafetyCoverage: 1, ReplenDuration: 3, MOQ: 1}, horizonGrid(0, 3))
	require.NoError(t, err)

	// Period 1: balance 0 < 100, window 300 -> order 300. The re-passed
	// balances 200 and 100 then stay at or above their thresholds.
	assert.Equal(t, 300.0, got[0].SuggestedQty)
	assert.Zero(t, got[1].SuggestedQty)
	assert.Zero(t, got[2].SuggestedQty)
	assert.InDelta(t, 100, got[2].ProjectedInventory, 1e-9)
}

func TestPlanSeriesMOQRounding(t *testing.T) {
	// A half-unit shortfall still orders one full MOQ.
	rows := seriesRows("SKU1@DC1", 9.5, []float64{10}, nil)

	got, err := PlanSeries("SKU1@DC1", rows, PlanParams{SafetyCoverage: 1, ReplenDuration: 1, MOQ: 50}, horizonGrid(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 50.0, got[0].SuggestedQty)
}

func TestRoundUpToMOQ(t *testing.T) {
	tests := []struct {
		name string
		qty  float64
		moq  float64
		want float64
	}{
		{"below one moq", 1, 50, 50},
		{"exactly one moq", 50, 50, 50},
		{"just above one moq", 51, 50, 100},
		{"exact multiple", 250, 50, 250},
		{"fractional moq", 0.3, 0.1, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, roundUpToMOQ(tt.qty, tt.moq), 1e-9)
		})
	}
}

func TestPlanSeriesIdempotent(t *testing.T) {
	// Folding the suggested orders back into scheduled supply and replanning
	// must suggest nothing new.
	params := PlanParams{SafetyCoverage: 1.5, ReplenDuration: 2, MOQ: 25}
	rows := seriesRows("SKU1@DC1", 80, []float64{60, 10, 45, 0, 90}, []float64{0, 20, 0, 0, 0})
	horizon := horizonGrid(1, 5)

	first, err := PlanSeries("SKU1@DC1", rows, params, horizon)
	require.NoError(t, err)

	replan := make([]schema.PeriodRow, len(rows))
	copy(replan, rows)
	for i := range replan {
		replan[i].ScheduledSupply += first[i].SuggestedQty
	}

	second, err := PlanSeries("SKU1@DC1", replan, params, horizon)
	require.NoError(t, err)
	for i, row := range second {
		assert.Zero(t, row.SuggestedQty, "replan suggested a new order at period %d", i)
	}
}

func TestPlanSeriesRestoresThreshold(t *testing.T) {
	// Invariant: after planning, every free period sits at or above its
	// safety threshold and every order is a whole multiple of MOQ.
	params := PlanParams{SafetyCoverage: 2, ReplenDuration: 3, MOQ: 12}
	rows := seriesRows("SKU1@DC1", 40, []float64{33, 7, 0, 120, 55, 21}, []float64{0, 0, 18, 0, 0, 0})
	horizon := horizonGrid(2, 6)

	got, err := PlanSeries("SKU1@DC1", rows, params, horizon)
	require.NoError(t, err)

	for i, row := range got {
		if horizon[i] != schema.FreeHorizon {
			continue
		}
		threshold := params.SafetyCoverage * row.Demand
		assert.GreaterOrEqual(t, row.ProjectedInventory+1e-9, threshold, "period %d below threshold", i)
		if row.SuggestedQty > 0 {
			multiples := row.SuggestedQty / params.MOQ
			assert.InDelta(t, math.Round(multiples), multiples, 1e-9, "order at period %d not a MOQ multiple", i)
		}
	}
}

func TestPlanSeriesHorizonErrors(t *testing.T) {
	rows := seriesRows("SKU1@DC1", 10, []float64{5, 5}, nil)
	params := PlanParams{SafetyCoverage: 1, ReplenDuration: 1, MOQ: 1}

	t.Run("length mismatch", func(t *testing.T) {
		_, err := PlanSeries("SKU1@DC1", rows, params, horizonGrid(0, 3))
		var hErr *schema.InvalidHorizonError
		require.True(t, errors.As(err, &hErr))
		assert.Contains(t, hErr.Reason, "3 statuses for 2 periods")
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := PlanSeries("SKU1@DC1", rows, params, []schema.HorizonStatus{schema.FreeHorizon, "thawed"})
		var hErr *schema.InvalidHorizonError
		require.True(t, errors.As(err, &hErr))
	})
}

func TestPlanParamsValidation(t *testing.T) {
	rows := seriesRows("SKU1@DC1", 10, []float64{5}, nil)

	tests := []struct {
		name   string
		params PlanParams
	}{
		{"negative safety coverage", PlanParams{SafetyCoverage: -1, ReplenDuration: 1, MOQ: 1}},
		{"zero duration", PlanParams{SafetyCoverage: 1, ReplenDuration: 0, MOQ: 1}},
		{"zero moq", PlanParams{SafetyCoverage: 1, ReplenDuration: 1, MOQ: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanSeries("SKU1@DC1", rows, tt.params, horizonGrid(0, 1))
			var cfgErr *schema.ConfigurationError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}
