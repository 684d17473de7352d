package planstore

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planhorizon/stockcast/schema"
)

func TestExecutePlanExport(t *testing.T) {
	t.Run("requires export file", func(t *testing.T) {
		err := ExecutePlanExport(0, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--export-file is required")
	})

	t.Run("exports latest run", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "plans.db")
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test
		require.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		defer CloseStores()

		store := Manager.GetPlanStore()
		runID, err := store.BeginRun(time.Now(), "plan", map[string]any{"mode": "plan"})
		require.NoError(t, err)
		require.Positive(t, runID)

		coverage := 1.5
		suggested := 250.0
		horizon := "free"
		rows := []schema.PlanRowRecord{{
			RunID:              runID,
			EntityID:           "SKU-A",
			Period:             time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			Demand:             100,
			ProjectedInventory: 150,
			Coverage:           &coverage,
			SuggestedQty:       &suggested,
			HorizonStatus:      &horizon,
		}}
		require.NoError(t, store.RecordEntityRows(runID, "SKU-A", rows))
		require.NoError(t, store.EndRun(runID, time.Now(), 1))

		exportBase := filepath.Join(t.TempDir(), "export")
		require.NoError(t, ExecutePlanExport(0, exportBase))

		_, err = os.Stat(exportBase + ".plan_runs.parquet")
		assert.NoError(t, err)
		_, err = os.Stat(exportBase + ".plan_rows.parquet")
		assert.NoError(t, err)

		// Explicit run ID takes the same path
		explicitBase := filepath.Join(t.TempDir(), "explicit")
		require.NoError(t, ExecutePlanExport(runID, explicitBase))
		_, err = os.Stat(explicitBase + ".plan_runs.parquet")
		assert.NoError(t, err)
	})

	t.Run("empty store has nothing to export", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "plans.db")
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test
		require.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		defer CloseStores()

		err := ExecutePlanExport(0, filepath.Join(t.TempDir(), "export"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no plan runs found")
	})
}
