package planstore

import (
	"errors"
	"fmt"

	"github.com/planhorizon/stockcast/internal/parquet"
	"github.com/planhorizon/stockcast/schema"
)

// ExecutePlanExport exports one recorded run and its per-period rows to
// Parquet files. A runID of zero exports the most recent run.
func ExecutePlanExport(runID int64, exportFile string) error {
	// Validate that export file is specified
	if exportFile == "" {
		return errors.New("--export-file is required for export command")
	}

	store := Manager.GetPlanStore()
	if store == nil {
		return errors.New("run tracking is disabled, nothing to export")
	}

	if runID == 0 {
		latest, err := store.LatestRunID()
		if err != nil {
			return fmt.Errorf("failed to resolve latest run: %w", err)
		}
		if latest == 0 {
			return errors.New("no plan runs found to export")
		}
		runID = latest
	}

	run, err := store.GetRun(runID)
	if err != nil {
		return fmt.Errorf("failed to retrieve run %d: %w", runID, err)
	}

	rows, err := store.GetRunRows(runID)
	if err != nil {
		return fmt.Errorf("failed to retrieve rows for run %d: %w", runID, err)
	}

	fmt.Printf("Exporting run %d (%s mode)...\n", runID, run.Mode)
	fmt.Printf("Total period rows: %d\n", len(rows))

	// Convert to Parquet format
	parquetRuns := parquet.ConvertPlanRunRecords([]schema.PlanRunRecord{run})
	parquetRows := parquet.ConvertPlanRowRecords(rows)

	// Write run metadata to Parquet
	runsFile := exportFile + ".plan_runs.parquet"
	if err := parquet.WritePlanRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write plan runs: %w", err)
	}
	fmt.Printf("Exported %d plan run(s) to: %s\n", len(parquetRuns), runsFile)

	// Write period rows to Parquet
	rowsFile := exportFile + ".plan_rows.parquet"
	if err := parquet.WritePlanPeriodRowsParquet(parquetRows, rowsFile); err != nil {
		return fmt.Errorf("failed to write plan rows: %w", err)
	}
	fmt.Printf("Exported %d period rows to: %s\n", len(parquetRows), rowsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
