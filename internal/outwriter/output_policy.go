package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/schema"
)

// policyTableFixedWidth is the column budget of everything except the entity
// ID: Period + Demand + Projected PI + Safety + Maximum + both ratios + Class.
const policyTableFixedWidth = 78

// WritePolicyResults outputs the stock policy analysis results, dispatching based on the output format configured.
func WritePolicyResults(w io.Writer, results []schema.EntityResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)
	shown := limitEntities(results, cfg.ResultLimit)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONResultsForPolicy(w, shown); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		if err := writeCSVResultsForPolicy(csvWriter, shown, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writePolicyTable(w, shown, len(results), cfg, fmtFloat, duration)
	}
	return nil
}

// writePolicyTable writes the policy rows with the min/max band and the
// classification of each period.
func writePolicyTable(w io.Writer, results []schema.EntityResult, totalEntities int, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	// --- 1. Define Headers ---
	headers := []string{"Entity", "Period", "Demand", "Projected PI", "Safety", "Maximum", "Safety Ratio", "Max Ratio", "Class"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	maxEntityWidth := getMaxTableEntityWidth(cfg, policyTableFixedWidth)
	var data [][]string
	for _, result := range results {
		for _, row := range result.Policy {
			data = append(data, []string{
				contract.TruncateEntityID(row.EntityID, maxEntityWidth),
				row.Period.Format(schema.PeriodLayout),
				fmtFloat(row.Demand),
				fmtFloat(row.ProjectedInventory),
				fmtFloat(row.SafetyStockQty),
				fmtFloat(row.MaximumStockQty),
				row.SafetyRatio.Format(cfg.Precision),
				row.MaximumRatio.Format(cfg.Precision),
				classLabel(row.Classification, cfg.UseColors),
			})
		}
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d of %d entities (%d periods)\n", len(results), totalEntities, countRows(results)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Policy analysis completed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForPolicy writes the policy rows to a CSV writer.
func writeCSVResultsForPolicy(w *csv.Writer, results []schema.EntityResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"entity_id",
		"period",
		"demand",
		"scheduled_supply",
		"projected_inventory",
		"coverage_periods",
		"safety_stock_qty",
		"maximum_stock_qty",
		"classification",
		"safety_ratio",
		"maximum_ratio",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, result := range results {
		for _, row := range result.Policy {
			record := []string{
				row.EntityID,
				row.Period.Format(schema.PeriodLayout),
				fmtFloat(row.Demand),
				fmtFloat(row.ScheduledSupply),
				fmtFloat(row.ProjectedInventory),
				row.Coverage.Format(cfg.Precision),
				fmtFloat(row.SafetyStockQty),
				fmtFloat(row.MaximumStockQty),
				contract.GetPlainClassLabel(row.Classification),
				row.SafetyRatio.Format(cfg.Precision),
				row.MaximumRatio.Format(cfg.Precision),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeJSONResultsForPolicy marshals the policy results to JSON and writes them.
func writeJSONResultsForPolicy(w io.Writer, results []schema.EntityResult) error {
	return writeJSON(w, results)
}
