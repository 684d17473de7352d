package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/schema"
)

// WriteGateResults outputs the threshold gate report, dispatching based on the output format configured.
func WriteGateResults(w io.Writer, result schema.GateResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONResultsForGate(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		if err := writeCSVResultsForGate(csvWriter, result); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable text
		return writeGateText(w, result)
	}
	return nil
}

// writeGateText displays the gate verdict and its violations.
func writeGateText(w io.Writer, result schema.GateResult) error {
	if result.Passed {
		if _, err := fmt.Fprintf(w, "✅ Gate passed: %d entities, %d periods checked\n", result.Summary.Entities, result.Summary.Periods); err != nil {
			return err
		}
		return nil
	}

	if _, err := fmt.Fprintf(w, "❌ Gate failed with %d violations:\n", len(result.Violations)); err != nil {
		return err
	}
	for _, v := range result.Violations {
		if _, err := fmt.Fprintf(w, "   - %s\n", v); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Checked %d entities, %d periods\n", result.Summary.Entities, result.Summary.Periods); err != nil {
		return err
	}
	return nil
}

// writeJSONResultsForGate marshals the gate report to JSON and writes it.
func writeJSONResultsForGate(w io.Writer, result schema.GateResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForGate writes the gate violations to a CSV writer.
func writeCSVResultsForGate(w *csv.Writer, result schema.GateResult) error {
	// 1. Write Header Row
	header := []string{"entity_id", "reason"}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, v := range result.Violations {
		if err := w.Write([]string{v.EntityID, v.Reason}); err != nil {
			return err
		}
	}
	return nil
}
