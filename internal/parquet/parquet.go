// Package parquet provides data structures and functions for exporting plan
// run data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/planhorizon/stockcast/schema"
)

// PlanRun represents a single plan run with metadata.
// This struct maps to the stockcast_plan_runs database table.
type PlanRun struct {
	// RunID is the unique identifier for this plan run
	RunID int64 `parquet:"run_id,snappy"`

	// Mode is the engine pass the run performed (project, policy or plan)
	Mode string `parquet:"mode,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalEntities is the number of entities planned in this run
	TotalEntities int32 `parquet:"total_entities,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// PlanPeriodRow represents one derived period row for an entity in a plan run.
// This struct maps to the stockcast_plan_rows database table.
type PlanPeriodRow struct {
	// RunID references the parent plan run
	RunID int64 `parquet:"run_id,snappy"`

	// EntityID is the demand forecast unit the row belongs to
	EntityID string `parquet:"entity_id,snappy"`

	// Period is the date bucket of the row (stored as TIMESTAMP with nanosecond precision)
	Period time.Time `parquet:"period,snappy"`

	// Demand is the forecast or actual demand of the period
	Demand float64 `parquet:"demand,snappy"`

	// ScheduledSupply is the supply arriving during the period
	ScheduledSupply float64 `parquet:"scheduled_supply,snappy"`

	// ProjectedInventory is the closing inventory position of the period
	ProjectedInventory float64 `parquet:"projected_inventory,snappy"`

	// Coverage is forward coverage in periods (nullable, NULL when inventory
	// outlasts the horizon)
	Coverage *float64 `parquet:"coverage_periods,optional,snappy"`

	// SafetyStockQty is the safety stock threshold of the period (policy runs only)
	SafetyStockQty *float64 `parquet:"safety_stock_qty,optional,snappy"`

	// MaximumStockQty is the maximum stock threshold of the period (policy runs only)
	MaximumStockQty *float64 `parquet:"maximum_stock_qty,optional,snappy"`

	// Classification is the stock position label of the period (policy runs only)
	Classification *string `parquet:"classification,optional,snappy"`

	// SuggestedQty is the suggested replenishment order of the period (plan runs only)
	SuggestedQty *float64 `parquet:"suggested_qty,optional,snappy"`

	// HorizonStatus reports whether the period was frozen or free (plan runs only)
	HorizonStatus *string `parquet:"horizon_status,optional,snappy"`
}

// WritePlanRunsParquet writes a slice of PlanRun structs to a Parquet file.
func WritePlanRunsParquet(data []PlanRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the PlanRun struct tags
	writer := parquet.NewGenericWriter[PlanRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WritePlanPeriodRowsParquet writes a slice of PlanPeriodRow structs to a Parquet file.
func WritePlanPeriodRowsParquet(data []PlanPeriodRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the PlanPeriodRow struct tags
	writer := parquet.NewGenericWriter[PlanPeriodRow](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// MockFetchPlanRuns generates sample PlanRun data for demonstration.
func MockFetchPlanRuns() []PlanRun {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := now.Add(-1*time.Hour - 30*time.Minute)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())
	configParams1 := `{"mode":"policy","min_cov":1.5,"max_cov":4}`

	startTime2 := now.Add(-24 * time.Hour)
	endTime2 := now.Add(-23 * time.Hour)
	durationMs2 := int32(endTime2.Sub(startTime2).Milliseconds())
	configParams2 := `{"mode":"plan","safety_cov":2,"moq":50}`

	startTime3 := now.Add(-10 * time.Minute)
	// Note: endTime3, durationMs3, configParams3 are nil to demonstrate nullable fields

	return []PlanRun{
		{
			RunID:         1,
			Mode:          string(schema.PolicyMode),
			StartTime:     startTime1,
			EndTime:       &endTime1,
			RunDurationMs: &durationMs1,
			TotalEntities: 150,
			ConfigParams:  &configParams1,
		},
		{
			RunID:         2,
			Mode:          string(schema.PlanMode),
			StartTime:     startTime2,
			EndTime:       &endTime2,
			RunDurationMs: &durationMs2,
			TotalEntities: 75,
			ConfigParams:  &configParams2,
		},
		{
			RunID:         3,
			Mode:          string(schema.ProjectMode),
			StartTime:     startTime3,
			EndTime:       nil, // Still running - nullable field
			RunDurationMs: nil, // Not yet calculated - nullable field
			TotalEntities: 0,
			ConfigParams:  nil, // No config stored - nullable field
		},
	}
}

// MockFetchPlanPeriodRows generates sample PlanPeriodRow data for demonstration.
func MockFetchPlanPeriodRows() []PlanPeriodRow {
	coverage1 := 1.25
	safety1 := 300.0
	maximum1 := 800.0
	class1 := string(schema.AlertClass)

	coverage2 := 2.5
	suggested2 := 250.0
	horizon2 := string(schema.FreeHorizon)

	// Note: coverage is nil on the third row because inventory outlasts
	// the horizon there

	return []PlanPeriodRow{
		{
			RunID:              1,
			EntityID:           "DC1/SKU-0042",
			Period:             time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			Demand:             200,
			ScheduledSupply:    0,
			ProjectedInventory: 250,
			Coverage:           &coverage1,
			SafetyStockQty:     &safety1,
			MaximumStockQty:    &maximum1,
			Classification:     &class1,
		},
		{
			RunID:              2,
			EntityID:           "DC1/SKU-0042",
			Period:             time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
			Demand:             180,
			ScheduledSupply:    100,
			ProjectedInventory: 420,
			Coverage:           &coverage2,
			SuggestedQty:       &suggested2,
			HorizonStatus:      &horizon2,
		},
		{
			RunID:              2,
			EntityID:           "DC2/SKU-0099",
			Period:             time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
			Demand:             0,
			ScheduledSupply:    0,
			ProjectedInventory: 90,
			Coverage:           nil, // Inventory outlasts the horizon - nullable field
		},
	}
}

// ConvertPlanRunRecords converts schema.PlanRunRecord to PlanRun for Parquet export.
func ConvertPlanRunRecords(records []schema.PlanRunRecord) []PlanRun {
	result := make([]PlanRun, len(records))
	for i, record := range records {
		result[i] = PlanRun{
			RunID:         record.RunID,
			Mode:          record.Mode,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalEntities: record.TotalEntities,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertPlanRowRecords converts schema.PlanRowRecord to PlanPeriodRow for Parquet export.
func ConvertPlanRowRecords(records []schema.PlanRowRecord) []PlanPeriodRow {
	result := make([]PlanPeriodRow, len(records))
	for i, record := range records {
		result[i] = PlanPeriodRow{
			RunID:              record.RunID,
			EntityID:           record.EntityID,
			Period:             record.Period,
			Demand:             record.Demand,
			ScheduledSupply:    record.ScheduledSupply,
			ProjectedInventory: record.ProjectedInventory,
			Coverage:           record.Coverage,
			SafetyStockQty:     record.SafetyStockQty,
			MaximumStockQty:    record.MaximumStockQty,
			Classification:     record.Classification,
			SuggestedQty:       record.SuggestedQty,
			HorizonStatus:      record.HorizonStatus,
		}
	}
	return result
}
