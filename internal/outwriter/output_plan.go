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

// planTableFixedWidth is the column budget of everything except the entity
// ID: Period + Horizon + Demand + Supply + Suggested Qty + Projected PI + Coverage.
const planTableFixedWidth = 70

// WritePlanResults outputs the replenishment plan results, dispatching based on the output format configured.
func WritePlanResults(w io.Writer, results []schema.EntityResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)
	shown := limitEntities(results, cfg.ResultLimit)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONResultsForPlan(w, shown); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		if err := writeCSVResultsForPlan(csvWriter, shown, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writePlanTable(w, shown, len(results), cfg, fmtFloat, duration)
	}
	return nil
}

// writePlanTable writes the plan rows with suggested orders and the
// post-replenishment inventory position.
func writePlanTable(w io.Writer, results []schema.EntityResult, totalEntities int, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	// --- 1. Define Headers ---
	headers := []string{"Entity", "Period", "Horizon", "Demand", "Supply", "Suggested Qty", "Projected PI", "Coverage"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	maxEntityWidth := getMaxTableEntityWidth(cfg, planTableFixedWidth)
	var data [][]string
	for _, result := range results {
		for _, row := range result.Plan {
			data = append(data, []string{
				contract.TruncateEntityID(row.EntityID, maxEntityWidth),
				row.Period.Format(schema.PeriodLayout),
				string(row.Horizon),
				fmtFloat(row.Demand),
				fmtFloat(row.ScheduledSupply),
				fmtFloat(row.SuggestedQty),
				fmtFloat(row.ProjectedInventory),
				row.Coverage.Format(cfg.Precision),
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
	if _, err := fmt.Fprintf(w, "Replenishment planning completed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForPlan writes the plan rows to a CSV writer.
func writeCSVResultsForPlan(w *csv.Writer, results []schema.EntityResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"entity_id",
		"period",
		"horizon_status",
		"demand",
		"scheduled_supply",
		"suggested_replenishment_qty",
		"projected_inventory",
		"coverage_periods",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, result := range results {
		for _, row := range result.Plan {
			record := []string{
				row.EntityID,
				row.Period.Format(schema.PeriodLayout),
				string(row.Horizon),
				fmtFloat(row.Demand),
				fmtFloat(row.ScheduledSupply),
				fmtFloat(row.SuggestedQty),
				fmtFloat(row.ProjectedInventory),
				row.Coverage.Format(cfg.Precision),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeJSONResultsForPlan marshals the plan results to JSON and writes them.
func writeJSONResultsForPlan(w io.Writer, results []schema.EntityResult) error {
	return writeJSON(w, results)
}
