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

// projectionTableFixedWidth is the column budget of everything except the
// entity ID: Period + Demand + Supply + Projected PI + Coverage.
const projectionTableFixedWidth = 48

// WriteProjectionResults outputs the projection results, dispatching based on the output format configured.
func WriteProjectionResults(w io.Writer, results []schema.EntityResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)
	shown := limitEntities(results, cfg.ResultLimit)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONResultsForProjection(w, shown); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		if err := writeCSVResultsForProjection(csvWriter, shown, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeProjectionTable(w, shown, len(results), cfg, fmtFloat, duration)
	}
	return nil
}

// writeProjectionTable writes the projection rows in a six-column table.
func writeProjectionTable(w io.Writer, results []schema.EntityResult, totalEntities int, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	// --- 1. Define Headers ---
	headers := []string{"Entity", "Period", "Demand", "Supply", "Projected PI", "Coverage"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	maxEntityWidth := getMaxTableEntityWidth(cfg, projectionTableFixedWidth)
	var data [][]string
	for _, result := range results {
		for _, row := range result.Projection {
			data = append(data, []string{
				contract.TruncateEntityID(row.EntityID, maxEntityWidth),
				row.Period.Format(schema.PeriodLayout),
				fmtFloat(row.Demand),
				fmtFloat(row.ScheduledSupply),
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
	if _, err := fmt.Fprintf(w, "Projection completed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForProjection writes the projection rows to a CSV writer.
func writeCSVResultsForProjection(w *csv.Writer, results []schema.EntityResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"entity_id",
		"period",
		"demand",
		"scheduled_supply",
		"projected_inventory",
		"coverage_periods",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, result := range results {
		for _, row := range result.Projection {
			record := []string{
				row.EntityID,
				row.Period.Format(schema.PeriodLayout),
				fmtFloat(row.Demand),
				fmtFloat(row.ScheduledSupply),
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

// writeJSONResultsForProjection marshals the projection results to JSON and writes them.
func writeJSONResultsForProjection(w io.Writer, results []schema.EntityResult) error {
	return writeJSON(w, results)
}
