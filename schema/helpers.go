package schema

import (
	"fmt"
	"time"
)

// ParsePeriod parses a period bucket date in the canonical layout.
func ParsePeriod(s string) (time.Time, error) {
	t, err := time.Parse(PeriodLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period %q: expected %s", s, PeriodLayout)
	}
	return t, nil
}

// FormatPeriod renders a period bucket date in the canonical layout.
func FormatPeriod(t time.Time) string {
	return t.Format(PeriodLayout)
}

// Next returns the period bucket following t for this interval.
// NoInterval has no defined spacing and returns t unchanged.
func (b BucketInterval) Next(t time.Time) time.Time {
	switch b {
	case DailyInterval:
		return t.AddDate(0, 0, 1)
	case WeeklyInterval:
		return t.AddDate(0, 0, 7)
	case MonthlyInterval:
		return t.AddDate(0, 1, 0)
	default:
		return t
	}
}

// ParseHorizonStatus parses a horizon cell value, tolerating mixed case.
// An empty cell maps to the empty status, which callers resolve later.
func ParseHorizonStatus(s string) (HorizonStatus, error) {
	switch s {
	case "":
		return "", nil
	case "frozen", "Frozen", "FROZEN":
		return FrozenHorizon, nil
	case "free", "Free", "FREE":
		return FreeHorizon, nil
	default:
		return "", fmt.Errorf("invalid horizon status %q: must be frozen or free", s)
	}
}
