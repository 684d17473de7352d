package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGateResultsPassed(t *testing.T) {
	result := schema.GateResult{
		Passed: true,
		Summary: schema.PlanSummary{
			Mode:     schema.PolicyMode,
			Entities: 8,
			Periods:  64,
		},
	}

	cfg := &contract.Config{Output: schema.TextOut, Precision: 2}

	var buf bytes.Buffer
	err := WriteGateResults(&buf, result, cfg)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "✅ Gate passed: 8 entities, 64 periods checked")
	assert.NotContains(t, output, "❌")
}

func TestWriteGateResultsFailed(t *testing.T) {
	result := schema.GateResult{
		Passed: false,
		Violations: []schema.GateViolation{
			{EntityID: "SKU-A", Reason: "4 shortage periods exceed limit 2"},
			{EntityID: "SKU-B", Reason: "minimum coverage 0.25 below floor 0.50"},
		},
		Summary: schema.PlanSummary{
			Mode:     schema.PolicyMode,
			Entities: 8,
			Periods:  64,
		},
	}

	cfg := &contract.Config{Output: schema.TextOut, Precision: 2}

	var buf bytes.Buffer
	err := WriteGateResults(&buf, result, cfg)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "❌ Gate failed with 2 violations:")
	assert.Contains(t, output, "- SKU-A: 4 shortage periods exceed limit 2")
	assert.Contains(t, output, "- SKU-B: minimum coverage 0.25 below floor 0.50")
	assert.Contains(t, output, "Checked 8 entities, 64 periods")
}

func TestWriteGateResultsJSON(t *testing.T) {
	result := schema.GateResult{
		Passed: false,
		Violations: []schema.GateViolation{
			{EntityID: "SKU-A", Reason: "run failed: negative demand"},
		},
		Summary: schema.PlanSummary{Mode: schema.PlanMode, Entities: 2, Periods: 10},
	}

	cfg := &contract.Config{Output: schema.JSONOut, Precision: 2}

	var buf bytes.Buffer
	err := WriteGateResults(&buf, result, cfg)
	require.NoError(t, err)

	var parsed map[string]any
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	assert.Equal(t, false, parsed["passed"])

	violations, ok := parsed["violations"].([]any)
	require.True(t, ok)
	require.Len(t, violations, 1)

	first, ok := violations[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "SKU-A", first["entity_id"])
	assert.Contains(t, first["reason"], "negative demand")
}

func TestWriteGateResultsCSV(t *testing.T) {
	result := schema.GateResult{
		Passed: false,
		Violations: []schema.GateViolation{
			{EntityID: "SKU-A", Reason: "2 alert periods exceed limit 1"},
		},
	}

	cfg := &contract.Config{Output: schema.CSVOut, Precision: 2}

	var buf bytes.Buffer
	err := WriteGateResults(&buf, result, cfg)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "entity_id,reason", lines[0])
	assert.Contains(t, lines[1], "SKU-A")
	assert.Contains(t, lines[1], "2 alert periods exceed limit 1")
}

func TestWriteGateResultsCSVPassed(t *testing.T) {
	result := schema.GateResult{Passed: true}
	cfg := &contract.Config{Output: schema.CSVOut, Precision: 2}

	var buf bytes.Buffer
	err := WriteGateResults(&buf, result, cfg)
	require.NoError(t, err)

	// Header only, no violation rows
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, "entity_id,reason", lines[0])
}
