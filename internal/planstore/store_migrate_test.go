package planstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planhorizon/stockcast/schema"
)

func TestMigratePlans_NoneBackend(t *testing.T) {
	err := MigratePlans(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigratePlans_SQLite(t *testing.T) {
	// Create a temporary database file for testing
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test_migration.db")

	// Run migration to latest version (should go to version 3)
	err := MigratePlans(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	// Verify migration was successful by checking the database file exists
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	// Run migration again (should be a no-op)
	err = MigratePlans(schema.SQLiteBackend, dbPath, -1)
	assert.NoError(t, err)

	// Step down to version 2 (drops the entity index)
	err = MigratePlans(schema.SQLiteBackend, dbPath, 2)
	assert.NoError(t, err)

	// Rollback to version 0
	err = MigratePlans(schema.SQLiteBackend, dbPath, 0)
	assert.NoError(t, err)

	// Migrate back up to version 3
	err = MigratePlans(schema.SQLiteBackend, dbPath, 3)
	assert.NoError(t, err)
}

func TestMigratePlans_SQLiteInMemory(t *testing.T) {
	// Test with in-memory database
	err := MigratePlans(schema.SQLiteBackend, ":memory:", -1)
	require.NoError(t, err)
}

func TestMigratePlans_StoreCompatible(t *testing.T) {
	// The migrated schema must accept the store's reads and writes
	dbPath := filepath.Join(t.TempDir(), "migrated.db")
	err := MigratePlans(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	store, err := NewPlanStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), "plan", map[string]any{"test": "migrated"})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	period := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	err = store.RecordEntityRows(runID, "SKU1@DC1", []schema.PlanRowRecord{
		{Period: period, Demand: 20, ProjectedInventory: 80, SuggestedQty: fptr(40), HorizonStatus: sptr("free")},
	})
	assert.NoError(t, err)

	require.NoError(t, store.EndRun(runID, time.Now(), 1))

	rows, err := store.GetRunRows(runID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].SuggestedQty)
	assert.Equal(t, 40.0, *rows[0].SuggestedQty)
}
