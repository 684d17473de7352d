package core

import (
	"testing"
	"time"

	"github.com/planhorizon/stockcast/schema"
)

// FuzzProjectSeries fuzzes the projection recurrence with random three-period series.
func FuzzProjectSeries(f *testing.F) {
	seeds := []struct {
		opening, d1, s1, d2, s2, d3, s3 float64
	}{
		{300, 100, 0, 100, 50, 100, 0},
		{0, 0, 0, 0, 0, 0, 0},
		{-50, 10, 0, 0, 100, 25, 0},
		{1e12, 1e-9, 0, 5, 0, 5, 1e12},
	}
	for _, seed := range seeds {
		f.Add(seed.opening, seed.d1, seed.s1, seed.d2, seed.s2, seed.d3, seed.s3)
	}

	f.Fuzz(func(t *testing.T, opening, d1, s1, d2, s2, d3, s3 float64) {
		start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
		rows := []schema.PeriodRow{
			{EntityID: "FUZZ", Period: start, Demand: d1, ScheduledSupply: s1, OpeningInventory: opening},
			{EntityID: "FUZZ", Period: start.AddDate(0, 0, 7), Demand: d2, ScheduledSupply: s2},
			{EntityID: "FUZZ", Period: start.AddDate(0, 0, 14), Demand: d3, ScheduledSupply: s3},
		}

		out, err := ProjectSeries("FUZZ", rows)
		if err != nil {
			return
		}
		if len(out) != len(rows) {
			t.Fatalf("got %d projection rows for %d periods", len(out), len(rows))
		}
	})
}

// FuzzForwardCoverage fuzzes coverage derivation with random balances and demand tails.
func FuzzForwardCoverage(f *testing.F) {
	seeds := []struct {
		available, d1, d2 float64
	}{
		{100, 40, 60},
		{0, 10, 10},
		{-5, 10, 10},
		{1, 0, 0},
		{1e18, 1e-18, 1},
	}
	for _, seed := range seeds {
		f.Add(seed.available, seed.d1, seed.d2)
	}

	f.Fuzz(func(t *testing.T, available, d1, d2 float64) {
		rows := []schema.PeriodRow{{Demand: 1}, {Demand: d1}, {Demand: d2}}

		c := forwardCoverage(available, rows, 0)
		if c.IsBeyondHorizon() {
			return
		}
		if float64(c) < 0 {
			t.Fatalf("negative coverage %v for available %v", c, available)
		}
		if float64(c) > float64(len(rows)-1) {
			t.Fatalf("finite coverage %v exceeds the %d remaining periods", c, len(rows)-1)
		}
	})
}
