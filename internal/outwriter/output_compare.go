package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/schema"
)

// compareTableFixedWidth is the column budget of everything except the entity
// ID: Status + the four delta columns + both coverage columns.
const compareTableFixedWidth = 74

// WriteComparisonResults outputs the scenario comparison, dispatching based on the output format configured.
func WriteComparisonResults(w io.Writer, comparison schema.ScenarioComparison, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONResultsForComparison(w, comparison); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		if err := writeCSVResultsForComparison(csvWriter, comparison, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeComparisonTable(w, comparison, cfg, fmtFloat, intFmt, duration)
	}
	return nil
}

// writeComparisonTable writes the per-entity deltas in a custom comparison format.
func writeComparisonTable(w io.Writer, comparison schema.ScenarioComparison, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	// --- 1. Define Headers (Comparison Mode) ---
	headers := []string{
		"Entity",
		"Status",
		"Δ Shortage",
		"Δ Alert",
		"Δ Suggested",
		"Δ Closing PI",
		"Base MinCov",
		"Rev MinCov",
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var red, green, yellow func(...any) string
	if cfg.UseColors {
		red = color.New(color.FgRed).SprintFunc()
		green = color.New(color.FgGreen).SprintFunc()
		yellow = color.New(color.FgYellow).SprintFunc()
	} else {
		red = fmt.Sprint
		green = fmt.Sprint
		yellow = fmt.Sprint
	}
	maxEntityWidth := getMaxTableEntityWidth(cfg, compareTableFixedWidth)
	var data [][]string
	for _, r := range comparison.Results {
		var deltaStr string
		deltaValue := r.DeltaSuggestedQty
		switch {
		case deltaValue > 0:
			// Explicitly add + sign: more replenishment needed than before
			deltaStr = red(fmt.Sprintf("+%.*f ▲", cfg.Precision, deltaValue))
		case deltaValue < 0:
			// Keeps the - sign from the float
			deltaStr = green(fmt.Sprintf("%.*f ▼", cfg.Precision, deltaValue))
		default:
			// For 0.0 deltas, format simply without an indicator
			deltaStr = yellow(fmt.Sprintf("%.*f", cfg.Precision, 0.0))
		}

		row := []string{
			contract.TruncateEntityID(r.EntityID, maxEntityWidth),
			string(r.Status),
			fmt.Sprintf(intFmt, r.DeltaShortagePeriods),
			fmt.Sprintf(intFmt, r.DeltaAlertPeriods),
			deltaStr,
			fmtFloat(r.DeltaClosingPI),
			formatOptionalCoverage(r.BaseMinCoverage, cfg.Precision),
			formatOptionalCoverage(r.RevisedMinCoverage, cfg.Precision),
		}
		data = append(data, row)
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	numItems := len(comparison.Results)
	if _, err := fmt.Fprintf(w, "Showing top %d changes\n", numItems); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Net suggested delta: %.*f, Net shortage delta: %d, Net alert delta: %d\n", cfg.Precision, comparison.Summary.NetSuggestedQtyDelta, comparison.Summary.NetShortagePeriodDelta, comparison.Summary.NetAlertPeriodDelta); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "New entities: %d, Dropped entities: %d, Common entities: %d\n", comparison.Summary.TotalNewEntities, comparison.Summary.TotalDroppedEntities, comparison.Summary.TotalCommonEntities); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Comparison completed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// formatOptionalCoverage renders a coverage cell, using a dash when the
// entity was absent from that side of the comparison.
func formatOptionalCoverage(c *schema.Coverage, precision int) string {
	if c == nil {
		return "-"
	}
	return c.Format(precision)
}

// writeJSONResultsForComparison marshals the scenario comparison to JSON and writes it.
func writeJSONResultsForComparison(w io.Writer, comparison schema.ScenarioComparison) error {
	return writeJSON(w, comparison)
}

// writeCSVResultsForComparison writes the per-entity deltas to a CSV writer.
func writeCSVResultsForComparison(w *csv.Writer, comparison schema.ScenarioComparison, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	// 1. Write Header Row
	header := []string{
		"entity_id",
		"status",
		"delta_shortage_periods",
		"delta_alert_periods",
		"delta_suggested_qty",
		"delta_closing_inventory",
		"base_min_coverage",
		"revised_min_coverage",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, r := range comparison.Results {
		record := []string{
			r.EntityID,
			string(r.Status),
			fmt.Sprintf(intFmt, r.DeltaShortagePeriods),
			fmt.Sprintf(intFmt, r.DeltaAlertPeriods),
			fmtFloat(r.DeltaSuggestedQty),
			fmtFloat(r.DeltaClosingPI),
			csvOptionalCoverage(r.BaseMinCoverage, cfg.Precision),
			csvOptionalCoverage(r.RevisedMinCoverage, cfg.Precision),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// csvOptionalCoverage renders a coverage cell for CSV, empty when absent.
func csvOptionalCoverage(c *schema.Coverage, precision int) string {
	if c == nil {
		return ""
	}
	return c.Format(precision)
}
