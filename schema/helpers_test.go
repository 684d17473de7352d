package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	got, err := ParsePeriod("2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, "2026-03-02", FormatPeriod(got))

	_, err = ParsePeriod("02/03/2026")
	assert.Error(t, err, "non-canonical layouts should be rejected")

	_, err = ParsePeriod("")
	assert.Error(t, err, "empty period should be rejected")
}

func TestBucketIntervalNext(t *testing.T) {
	base := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		interval BucketInterval
		want     time.Time
	}{
		{"daily", DailyInterval, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"weekly", WeeklyInterval, time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC)},
		{"monthly rolls over short months", MonthlyInterval, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"none leaves the bucket alone", NoInterval, base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.interval.Next(base))
		})
	}
}

func TestParseHorizonStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    HorizonStatus
		wantErr bool
	}{
		{"frozen", FrozenHorizon, false},
		{"Frozen", FrozenHorizon, false},
		{"free", FreeHorizon, false},
		{"FREE", FreeHorizon, false},
		{"", HorizonStatus(""), false}, // blank cells resolve later
		{"thawed", HorizonStatus(""), true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHorizonStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
