// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/planhorizon/stockcast/schema"
)

// StoreManager defines the interface for managing plan stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetPlanStore() PlanStore
}

// PlanStore defines the interface for tracking batch runs and persisting
// their per-period rows.
type PlanStore interface {
	// BeginRun creates a new plan run and returns its unique ID
	BeginRun(startTime time.Time, mode string, configParams map[string]any) (int64, error)

	// EndRun updates the plan run with completion data
	EndRun(runID int64, endTime time.Time, totalEntities int) error

	// RecordEntityRows stores the computed rows for one entity
	RecordEntityRows(runID int64, entityID string, rows []schema.PlanRowRecord) error

	// GetRun returns the run metadata for a run ID
	GetRun(runID int64) (schema.PlanRunRecord, error)

	// GetRunRows returns all persisted rows for a run ID
	GetRunRows(runID int64) ([]schema.PlanRowRecord, error)

	// LatestRunID returns the most recent run ID, or 0 when none exist
	LatestRunID() (int64, error)

	// GetStatus returns status information about the plan store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}
