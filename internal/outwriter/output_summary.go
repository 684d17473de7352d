package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/schema"
)

// WriteSummaryResults outputs the run summary metrics, dispatching based on the output format configured.
func WriteSummaryResults(w io.Writer, summary schema.PlanSummary, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONResultsForSummary(w, summary); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		if err := writeCSVResultsForSummary(csvWriter, summary, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable text
		return writeSummaryText(w, summary, cfg, fmtFloat, duration)
	}
	return nil
}

// writeSummaryText displays the summary in human-readable text format.
func writeSummaryText(w io.Writer, summary schema.PlanSummary, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "📦 Stockcast Run Summary (%s mode)\n", summary.Mode); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "==================================\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Entities: %d (%d failed)\n", summary.Entities, summary.FailedEntities); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Periods: %d\n", summary.Periods); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total demand: %s, total supply: %s\n", fmtFloat(summary.TotalDemand), fmtFloat(summary.TotalSupply)); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\n🔍 Coverage\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "   Negative periods: %d\n", summary.NegativePeriods); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "   Beyond horizon periods: %d\n", summary.BeyondHorizonPeriods); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "   Minimum coverage: %s\n", summary.MinCoverage.Format(cfg.Precision)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "   Average coverage: %s\n", fmtFloat(summary.AvgCoverage)); err != nil {
		return err
	}

	if len(summary.ClassCounts) > 0 {
		if _, err := fmt.Fprintf(w, "\n🚦 Classification\n"); err != nil {
			return err
		}
		for _, class := range schema.AllClassifications {
			if _, err := fmt.Fprintf(w, "   %s: %d\n", class, summary.ClassCounts[class]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "   Entities with shortages: %d, with alerts: %d\n", summary.ShortageEntities, summary.AlertEntities); err != nil {
			return err
		}
	}

	if summary.Mode == schema.PlanMode {
		if _, err := fmt.Fprintf(w, "\n🚚 Replenishment\n"); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Suggested orders: %d\n", summary.SuggestedOrders); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Total suggested quantity: %s\n", fmtFloat(summary.TotalSuggestedQty)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Frozen periods: %d\n", summary.FrozenPeriods); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\nSummary computed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeJSONResultsForSummary marshals the summary to JSON and writes it.
func writeJSONResultsForSummary(w io.Writer, summary schema.PlanSummary) error {
	return writeJSON(w, summary)
}

// writeCSVResultsForSummary writes the summary as metric/value pairs to a CSV writer.
func writeCSVResultsForSummary(w *csv.Writer, summary schema.PlanSummary, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	// 1. Write Header Row
	if err := w.Write([]string{"metric", "value"}); err != nil {
		return err
	}

	// 2. Write Data Rows
	rows := [][]string{
		{"mode", string(summary.Mode)},
		{"entities", fmt.Sprintf(intFmt, summary.Entities)},
		{"failed_entities", fmt.Sprintf(intFmt, summary.FailedEntities)},
		{"periods", fmt.Sprintf(intFmt, summary.Periods)},
		{"total_demand", fmtFloat(summary.TotalDemand)},
		{"total_supply", fmtFloat(summary.TotalSupply)},
		{"negative_periods", fmt.Sprintf(intFmt, summary.NegativePeriods)},
		{"beyond_horizon_periods", fmt.Sprintf(intFmt, summary.BeyondHorizonPeriods)},
		{"min_coverage", summary.MinCoverage.Format(cfg.Precision)},
		{"avg_coverage", fmtFloat(summary.AvgCoverage)},
	}
	if len(summary.ClassCounts) > 0 {
		for _, class := range schema.AllClassifications {
			name := "class_" + strings.ToLower(string(class))
			rows = append(rows, []string{name, fmt.Sprintf(intFmt, summary.ClassCounts[class])})
		}
		rows = append(rows,
			[]string{"shortage_entities", fmt.Sprintf(intFmt, summary.ShortageEntities)},
			[]string{"alert_entities", fmt.Sprintf(intFmt, summary.AlertEntities)},
		)
	}
	if summary.Mode == schema.PlanMode {
		rows = append(rows,
			[]string{"suggested_orders", fmt.Sprintf(intFmt, summary.SuggestedOrders)},
			[]string{"total_suggested_qty", fmtFloat(summary.TotalSuggestedQty)},
			[]string{"frozen_periods", fmt.Sprintf(intFmt, summary.FrozenPeriods)},
		)
	}

	for _, record := range rows {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
