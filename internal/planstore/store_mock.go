package planstore

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/schema"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetPlanStore implements the StoreManager interface.
func (m *MockStoreManager) GetPlanStore() contract.PlanStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.PlanStore)
	return store
}

// MockPlanStore is a mock implementation of PlanStore for testing.
type MockPlanStore struct {
	mock.Mock
}

var _ contract.PlanStore = &MockPlanStore{} // Compile-time check

// BeginRun implements the PlanStore interface.
func (m *MockPlanStore) BeginRun(startTime time.Time, mode string, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, mode, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the PlanStore interface.
func (m *MockPlanStore) EndRun(runID int64, endTime time.Time, totalEntities int) error {
	args := m.Called(runID, endTime, totalEntities)
	return args.Error(0)
}

// RecordEntityRows implements the PlanStore interface.
func (m *MockPlanStore) RecordEntityRows(runID int64, entityID string, rows []schema.PlanRowRecord) error {
	args := m.Called(runID, entityID, rows)
	return args.Error(0)
}

// GetRun implements the PlanStore interface.
func (m *MockPlanStore) GetRun(runID int64) (schema.PlanRunRecord, error) {
	args := m.Called(runID)
	return args.Get(0).(schema.PlanRunRecord), args.Error(1)
}

// GetRunRows implements the PlanStore interface.
func (m *MockPlanStore) GetRunRows(runID int64) ([]schema.PlanRowRecord, error) {
	args := m.Called(runID)
	rows, _ := args.Get(0).([]schema.PlanRowRecord)
	return rows, args.Error(1)
}

// LatestRunID implements the PlanStore interface.
func (m *MockPlanStore) LatestRunID() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// GetStatus implements the PlanStore interface.
func (m *MockPlanStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the PlanStore interface.
func (m *MockPlanStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
