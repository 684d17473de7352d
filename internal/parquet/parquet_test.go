package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/planhorizon/stockcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	runSchema := parquet.SchemaOf(new(PlanRun))
	require.NotNil(t, runSchema)

	// Check that all expected columns exist
	expectedColumns := []string{
		"run_id",
		"mode",
		"start_time",
		"end_time",
		"run_duration_ms",
		"total_entities",
		"config_params",
	}

	for _, colName := range expectedColumns {
		col, ok := runSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestPlanPeriodRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	rowSchema := parquet.SchemaOf(new(PlanPeriodRow))
	require.NotNil(t, rowSchema)

	// Check that all expected columns exist
	expectedColumns := []string{
		"run_id",
		"entity_id",
		"period",
		"demand",
		"scheduled_supply",
		"projected_inventory",
		"coverage_periods",
		"safety_stock_qty",
		"maximum_stock_qty",
		"classification",
		"suggested_qty",
		"horizon_status",
	}

	for _, colName := range expectedColumns {
		col, ok := rowSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWritePlanRunsParquet(t *testing.T) {
	// Create temporary directory for test output
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "plan_runs.parquet")

	// Get mock data
	data := MockFetchPlanRuns()
	require.NotEmpty(t, data, "Mock data should not be empty")

	// Write data to Parquet file
	err := WritePlanRunsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[PlanRun](file)
	defer reader.Close()

	// Read all rows
	readData := make([]PlanRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	// Verify data integrity
	for i := 0; i < len(data); i++ {
		assert.Equal(t, data[i].RunID, readData[i].RunID, "RunID should match")
		assert.Equal(t, data[i].Mode, readData[i].Mode, "Mode should match")
		assert.Equal(t, data[i].TotalEntities, readData[i].TotalEntities, "TotalEntities should match")

		// Check nullable fields
		if data[i].EndTime == nil {
			assert.Nil(t, readData[i].EndTime, "EndTime should be nil")
		} else {
			require.NotNil(t, readData[i].EndTime, "EndTime should not be nil")
			assert.WithinDuration(t, *data[i].EndTime, *readData[i].EndTime, time.Nanosecond, "EndTime should match within nanosecond precision")
		}

		if data[i].RunDurationMs == nil {
			assert.Nil(t, readData[i].RunDurationMs, "RunDurationMs should be nil")
		} else {
			require.NotNil(t, readData[i].RunDurationMs, "RunDurationMs should not be nil")
			assert.Equal(t, *data[i].RunDurationMs, *readData[i].RunDurationMs, "RunDurationMs should match")
		}

		if data[i].ConfigParams == nil {
			assert.Nil(t, readData[i].ConfigParams, "ConfigParams should be nil")
		} else {
			require.NotNil(t, readData[i].ConfigParams, "ConfigParams should not be nil")
			assert.Equal(t, *data[i].ConfigParams, *readData[i].ConfigParams, "ConfigParams should match")
		}
	}
}

func TestWritePlanPeriodRowsParquet(t *testing.T) {
	// Create temporary directory for test output
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "plan_rows.parquet")

	// Get mock data
	data := MockFetchPlanPeriodRows()
	require.NotEmpty(t, data, "Mock data should not be empty")

	// Write data to Parquet file
	err := WritePlanPeriodRowsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[PlanPeriodRow](file)
	defer reader.Close()

	// Read all rows
	readData := make([]PlanPeriodRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	// Verify data integrity
	for i := 0; i < len(data); i++ {
		assert.Equal(t, data[i].RunID, readData[i].RunID, "RunID should match")
		assert.Equal(t, data[i].EntityID, readData[i].EntityID, "EntityID should match")
		assert.WithinDuration(t, data[i].Period, readData[i].Period, time.Nanosecond, "Period should match")
		assert.InDelta(t, data[i].Demand, readData[i].Demand, 0.001, "Demand should match")
		assert.InDelta(t, data[i].ScheduledSupply, readData[i].ScheduledSupply, 0.001, "ScheduledSupply should match")
		assert.InDelta(t, data[i].ProjectedInventory, readData[i].ProjectedInventory, 0.001, "ProjectedInventory should match")

		// Check nullable Coverage field
		if data[i].Coverage == nil {
			assert.Nil(t, readData[i].Coverage, "Coverage should be nil")
		} else {
			require.NotNil(t, readData[i].Coverage, "Coverage should not be nil")
			assert.InDelta(t, *data[i].Coverage, *readData[i].Coverage, 0.001, "Coverage should match")
		}

		// Check nullable Classification field
		if data[i].Classification == nil {
			assert.Nil(t, readData[i].Classification, "Classification should be nil")
		} else {
			require.NotNil(t, readData[i].Classification, "Classification should not be nil")
			assert.Equal(t, *data[i].Classification, *readData[i].Classification, "Classification should match")
		}

		// Check nullable HorizonStatus field
		if data[i].HorizonStatus == nil {
			assert.Nil(t, readData[i].HorizonStatus, "HorizonStatus should be nil")
		} else {
			require.NotNil(t, readData[i].HorizonStatus, "HorizonStatus should not be nil")
			assert.Equal(t, *data[i].HorizonStatus, *readData[i].HorizonStatus, "HorizonStatus should match")
		}
	}
}

func TestWritePlanRunsParquet_EmptyData(t *testing.T) {
	// Create temporary directory for test output
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_plan_runs.parquet")

	// Write empty data
	err := WritePlanRunsParquet([]PlanRun{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWritePlanPeriodRowsParquet_EmptyData(t *testing.T) {
	// Create temporary directory for test output
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_plan_rows.parquet")

	// Write empty data
	err := WritePlanPeriodRowsParquet([]PlanPeriodRow{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWritePlanRunsParquet_InvalidPath(t *testing.T) {
	// Try to write to invalid path
	data := MockFetchPlanRuns()
	err := WritePlanRunsParquet(data, "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}

func TestConvertPlanRunRecords(t *testing.T) {
	endTime := time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC)
	durationMs := int32(1000)
	config := `{"mode":"plan"}`

	records := []schema.PlanRunRecord{
		{
			RunID:         7,
			Mode:          string(schema.PlanMode),
			StartTime:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			EndTime:       &endTime,
			RunDurationMs: &durationMs,
			TotalEntities: 3,
			ConfigParams:  &config,
		},
		{
			RunID:     8,
			Mode:      string(schema.ProjectMode),
			StartTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		},
	}

	converted := ConvertPlanRunRecords(records)
	require.Len(t, converted, 2)

	assert.Equal(t, int64(7), converted[0].RunID)
	assert.Equal(t, "plan", converted[0].Mode)
	assert.Equal(t, int32(3), converted[0].TotalEntities)
	require.NotNil(t, converted[0].EndTime)
	assert.True(t, converted[0].EndTime.Equal(endTime))
	require.NotNil(t, converted[0].ConfigParams)
	assert.Equal(t, config, *converted[0].ConfigParams)

	assert.Equal(t, int64(8), converted[1].RunID)
	assert.Nil(t, converted[1].EndTime)
	assert.Nil(t, converted[1].RunDurationMs)
	assert.Nil(t, converted[1].ConfigParams)
}

func TestConvertPlanRowRecords(t *testing.T) {
	coverage := 1.75
	suggested := 120.0
	horizon := string(schema.FrozenHorizon)

	records := []schema.PlanRowRecord{
		{
			RunID:              7,
			EntityID:           "SKU-0001",
			Period:             time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Demand:             50,
			ScheduledSupply:    10,
			ProjectedInventory: 85,
			Coverage:           &coverage,
			SuggestedQty:       &suggested,
			HorizonStatus:      &horizon,
		},
		{
			RunID:              7,
			EntityID:           "SKU-0002",
			Period:             time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Demand:             0,
			ProjectedInventory: 40,
			Coverage:           nil,
		},
	}

	converted := ConvertPlanRowRecords(records)
	require.Len(t, converted, 2)

	assert.Equal(t, "SKU-0001", converted[0].EntityID)
	assert.InDelta(t, 85, converted[0].ProjectedInventory, 0.001)
	require.NotNil(t, converted[0].Coverage)
	assert.InDelta(t, 1.75, *converted[0].Coverage, 0.001)
	require.NotNil(t, converted[0].HorizonStatus)
	assert.Equal(t, "frozen", *converted[0].HorizonStatus)

	assert.Nil(t, converted[1].Coverage)
	assert.Nil(t, converted[1].SuggestedQty)
	assert.Nil(t, converted[1].Classification)
}

func TestNullableFieldHandling(t *testing.T) {
	// Test that we can create structs with various combinations of null fields
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "nullable_test.parquet")

	now := time.Now()
	endTime := now.Add(1 * time.Hour)
	durationMs := int32(3600000)
	config := `{"mode":"policy"}`

	testData := []PlanRun{
		// All fields populated
		{
			RunID:         1,
			Mode:          string(schema.PolicyMode),
			StartTime:     now,
			EndTime:       &endTime,
			RunDurationMs: &durationMs,
			TotalEntities: 100,
			ConfigParams:  &config,
		},
		// All nullable fields are nil
		{
			RunID:         2,
			Mode:          string(schema.ProjectMode),
			StartTime:     now,
			EndTime:       nil,
			RunDurationMs: nil,
			TotalEntities: 0,
			ConfigParams:  nil,
		},
	}

	// Write and read back
	err := WritePlanRunsParquet(testData, outputPath)
	require.NoError(t, err)

	// Read back and verify
	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[PlanRun](file)
	defer reader.Close()

	readData := make([]PlanRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	assert.Equal(t, len(testData), n)

	// Verify first record has all fields
	assert.NotNil(t, readData[0].EndTime)
	assert.NotNil(t, readData[0].RunDurationMs)
	assert.NotNil(t, readData[0].ConfigParams)

	// Verify second record has nil nullable fields
	assert.Nil(t, readData[1].EndTime)
	assert.Nil(t, readData[1].RunDurationMs)
	assert.Nil(t, readData[1].ConfigParams)
}
