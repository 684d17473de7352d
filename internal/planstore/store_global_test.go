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

func TestStores(t *testing.T) {
	t.Run("single setup", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "plans.db")
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		err := InitStores(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)

		require.NotNil(t, Manager)
		require.NotNil(t, Manager.GetPlanStore())

		CloseStores()

		// Verify database file was created
		_, err = os.Stat(dbPath)
		assert.NoError(t, err)
	})

	t.Run("idempotent setup", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "plans.db")
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		// Multiple initializations should be safe (sync.Once)
		err1 := InitStores(schema.SQLiteBackend, dbPath)
		err2 := InitStores(schema.SQLiteBackend, dbPath)
		err3 := InitStores(schema.SQLiteBackend, dbPath)

		require.NoError(t, err1)
		require.NoError(t, err2)
		require.NoError(t, err3)

		// Multiple closes should be safe (sync.Once)
		CloseStores()
		CloseStores()
		CloseStores()
	})

	t.Run("none backend", func(t *testing.T) {
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		err := InitStores(schema.NoneBackend, "")
		require.NoError(t, err)

		store := Manager.GetPlanStore()
		require.NotNil(t, store)

		// No-op store swallows writes
		runID, err := store.BeginRun(time.Now(), "project", nil)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), runID)

		CloseStores()
	})

	t.Run("empty backend disables tracking", func(t *testing.T) {
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test

		err := InitStores("", "")
		require.NoError(t, err)
		assert.Nil(t, Manager.GetPlanStore())

		CloseStores()
	})
}

func TestClearStore(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "plans.db")
		store, err := NewPlanStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		err = ClearStore(schema.SQLiteBackend, dbPath, "")
		require.NoError(t, err)

		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file is fine", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "absent.db")
		err := ClearStore(schema.SQLiteBackend, dbPath, "")
		assert.NoError(t, err)
	})

	t.Run("sqlite requires file path", func(t *testing.T) {
		err := ClearStore(schema.SQLiteBackend, "", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("none backend is a no-op", func(t *testing.T) {
		err := ClearStore(schema.NoneBackend, "", "")
		assert.NoError(t, err)
	})

	t.Run("unsupported backend", func(t *testing.T) {
		err := ClearStore(schema.DatabaseBackend("bogus"), "", "")
		assert.Error(t, err)
	})
}
