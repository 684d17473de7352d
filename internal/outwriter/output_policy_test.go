package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePolicyResults() []schema.EntityResult {
	p1 := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	p2 := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	return []schema.EntityResult{
		{
			EntityID: "SKU-BRAVO",
			Policy: []schema.PolicyRow{
				{
					ProjectionRow: schema.ProjectionRow{
						EntityID:           "SKU-BRAVO",
						Period:             p1,
						Demand:             200,
						ProjectedInventory: -40,
						Coverage:           schema.Coverage(0),
					},
					SafetyStockQty:  100,
					MaximumStockQty: 600,
					Classification:  schema.ShortageClass,
					SafetyRatio:     schema.NewRatio(-40, 100),
					MaximumRatio:    schema.NewRatio(-40, 600),
				},
				{
					ProjectionRow: schema.ProjectionRow{
						EntityID:           "SKU-BRAVO",
						Period:             p2,
						Demand:             0,
						ProjectedInventory: 300,
						Coverage:           schema.BeyondHorizon,
					},
					SafetyStockQty:  0,
					MaximumStockQty: 0,
					Classification:  schema.TBCClass,
					SafetyRatio:     schema.UndefinedRatio,
					MaximumRatio:    schema.UndefinedRatio,
				},
			},
		},
	}
}

func TestWritePolicyResultsTable(t *testing.T) {
	results := samplePolicyResults()
	cfg := &contract.Config{
		Output:       schema.TextOut,
		Precision:    2,
		ResultLimit:  50,
		Workers:      2,
		Width:        160,
		StoreBackend: schema.SQLiteBackend,
		UseColors:    false,
	}

	var buf bytes.Buffer
	err := WritePolicyResults(&buf, results, cfg, 80*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "SKU-BRAVO")
	assert.Contains(t, output, "2026-02-02")
	assert.Contains(t, output, "-40.00")
	assert.Contains(t, output, "100.00")
	assert.Contains(t, output, "600.00")
	assert.Contains(t, output, "Shortage")
	assert.Contains(t, output, "TBC")
	assert.Contains(t, output, "n/a")
	assert.Contains(t, output, "Showing 1 of 1 entities (2 periods)")
	assert.Contains(t, output, "Policy analysis completed in 80ms with 2 workers")
	assert.Contains(t, output, "Store backend: sqlite")
}

func TestWritePolicyResultsJSON(t *testing.T) {
	results := samplePolicyResults()
	cfg := &contract.Config{
		Output:      schema.JSONOut,
		Precision:   2,
		ResultLimit: 50,
	}

	var buf bytes.Buffer
	err := WritePolicyResults(&buf, results, cfg, 10*time.Millisecond)
	require.NoError(t, err)

	var parsed []map[string]any
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)
	require.Len(t, parsed, 1)

	rows, ok := parsed[0]["policy"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)

	first, ok := rows[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Shortage", first["classification"])
	assert.InDelta(t, -0.4, first["safety_ratio"], 1e-9)

	// Undefined ratios marshal to null
	second, ok := rows[1].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "TBC", second["classification"])
	assert.Nil(t, second["safety_ratio"])
	assert.Nil(t, second["maximum_ratio"])
}

func TestWritePolicyResultsCSV(t *testing.T) {
	results := samplePolicyResults()
	cfg := &contract.Config{
		Output:      schema.CSVOut,
		Precision:   2,
		ResultLimit: 50,
	}

	var buf bytes.Buffer
	err := WritePolicyResults(&buf, results, cfg, 10*time.Millisecond)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + 2 rows

	assert.Contains(t, lines[0], "classification")
	assert.Contains(t, lines[0], "safety_ratio")
	assert.Contains(t, lines[1], "Shortage")
	assert.Contains(t, lines[1], "-0.40")
	assert.Contains(t, lines[2], "TBC")
	assert.Contains(t, lines[2], "n/a")
	assert.Contains(t, lines[2], ">horizon")
}

func TestWritePolicyResultsColoredLabels(t *testing.T) {
	results := samplePolicyResults()
	cfg := &contract.Config{
		Output:      schema.TextOut,
		Precision:   2,
		ResultLimit: 50,
		Workers:     1,
		Width:       160,
		UseColors:   true,
	}

	var buf bytes.Buffer
	err := WritePolicyResults(&buf, results, cfg, time.Millisecond)
	require.NoError(t, err)

	// Class text survives regardless of color wrapping
	output := buf.String()
	assert.Contains(t, output, "Shortage")
	assert.Contains(t, output, "TBC")
}
