// Package planstore persists plan runs and their per-period rows.
package planstore

import (
	"sync"

	"github.com/planhorizon/stockcast/internal/contract"
)

// PlanStoreManager manages the PlanStore instance used for run tracking.
type PlanStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	plans        contract.PlanStore
}

var _ contract.StoreManager = &PlanStoreManager{} // Compile-time check

// GetPlanStore returns the plan PlanStore.
func (mgr *PlanStoreManager) GetPlanStore() contract.PlanStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.plans
}
