package core

import (
	"fmt"
	"sort"

	"github.com/planhorizon/stockcast/schema"
)

// NormalizeSeries orders one entity's rows chronologically and validates them
// for the engine passes. With a configured bucket interval it also fills gaps
// with zero-demand rows so the series walks a contiguous grid.
func NormalizeSeries(entityID string, rows []schema.PeriodRow, interval schema.BucketInterval) ([]schema.PeriodRow, error) {
	if len(rows) == 0 {
		return nil, &schema.InvalidSeriesError{EntityID: entityID}
	}

	out := make([]schema.PeriodRow, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Period.Before(out[j].Period)
	})

	for i, row := range out {
		if i > 0 && row.Period.Equal(out[i-1].Period) {
			return nil, &schema.ValidationError{
				EntityID: entityID,
				Reason:   fmt.Sprintf("duplicate period %s", schema.FormatPeriod(row.Period)),
			}
		}
		if row.Demand < 0 {
			return nil, &schema.ValidationError{
				EntityID: entityID,
				Reason:   fmt.Sprintf("negative demand %.2f in period %s", row.Demand, schema.FormatPeriod(row.Period)),
			}
		}
		if row.ScheduledSupply < 0 {
			return nil, &schema.ValidationError{
				EntityID: entityID,
				Reason:   fmt.Sprintf("negative scheduled supply %.2f in period %s", row.ScheduledSupply, schema.FormatPeriod(row.Period)),
			}
		}
		if i > 0 && row.OpeningInventory != 0 {
			return nil, &schema.ValidationError{
				EntityID: entityID,
				Reason:   fmt.Sprintf("opening inventory set on non-first period %s", schema.FormatPeriod(row.Period)),
			}
		}
	}

	if interval == schema.NoInterval {
		return out, nil
	}
	return fillGaps(entityID, out, interval)
}

// fillGaps inserts zero-demand rows for missing buckets. Gap rows inherit the
// horizon status of the preceding explicit row so a frozen stretch stays
// frozen across the fill.
func fillGaps(entityID string, rows []schema.PeriodRow, interval schema.BucketInterval) ([]schema.PeriodRow, error) {
	filled := make([]schema.PeriodRow, 0, len(rows))
	filled = append(filled, rows[0])

	for _, row := range rows[1:] {
		prev := filled[len(filled)-1]
		expected := interval.Next(prev.Period)
		for expected.Before(row.Period) {
			filled = append(filled, schema.PeriodRow{
				EntityID: entityID,
				Period:   expected,
				Horizon:  prev.Horizon,
			})
			expected = interval.Next(expected)
		}
		if !expected.Equal(row.Period) {
			return nil, &schema.ValidationError{
				EntityID: entityID,
				Reason: fmt.Sprintf("period %s is off the %s grid, expected %s",
					schema.FormatPeriod(row.Period), interval, schema.FormatPeriod(expected)),
			}
		}
		filled = append(filled, row)
	}

	return filled, nil
}
