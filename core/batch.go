package core

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/schema"
)

// entityOutcome is the fan-in unit for one entity task.
type entityOutcome struct {
	result *schema.EntityResult
	err    *schema.EntityError
}

// RunBatch fans a dataset out to a worker pool, one independent entity per
// task, and collects results and per-entity failures. A failed entity never
// aborts the batch. When a plan store is configured the run and its rows are
// recorded for later export.
func RunBatch(ctx context.Context, cfg *contract.Config, dataset schema.Dataset, mgr contract.StoreManager) (*schema.BatchResult, error) {
	// --- 0. Entity selection ---
	ids := make([]string, 0, len(dataset))
	for id := range dataset {
		if contract.MatchesEntity(id, cfg.EntityPatterns) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, errors.New("no entities found")
	}

	// --- 1. Begin run tracking (if configured) ---
	var runID int64
	var store contract.PlanStore
	if mgr != nil {
		store = mgr.GetPlanStore()
	}
	if store != nil {
		startTime := time.Now()
		configParams := map[string]any{
			"mode":       string(cfg.Mode),
			"input_path": cfg.InputPath,
			"interval":   string(cfg.Interval),
			"workers":    cfg.Workers,
			"min_cov":    cfg.MinCoverage,
			"max_cov":    cfg.MaxCoverage,
			"safety_cov": cfg.SafetyCoverage,
			"moq":        cfg.MOQ,
		}
		var err error
		runID, err = store.BeginRun(startTime, string(cfg.Mode), configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
			runID = 0
		}
	}

	// --- 2. Worker pool over entities ---
	entityCh := make(chan string, len(ids))
	outcomeCh := make(chan entityOutcome, len(ids))
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Go(func() {
			for id := range entityCh {
				if err := ctx.Err(); err != nil {
					outcomeCh <- entityOutcome{err: &schema.EntityError{EntityID: id, Err: err}}
					continue
				}
				outcomeCh <- runEntity(cfg, id, dataset[id])
			}
		})
	}

	for _, id := range ids {
		entityCh <- id
	}
	close(entityCh)

	wg.Wait()
	close(outcomeCh)

	// --- 3. Fan-in, sorted for deterministic output ---
	batch := &schema.BatchResult{Mode: cfg.Mode, RunID: runID}
	for outcome := range outcomeCh {
		if outcome.err != nil {
			batch.Errors = append(batch.Errors, *outcome.err)
			continue
		}
		batch.Results = append(batch.Results, *outcome.result)
	}
	sort.Slice(batch.Results, func(i, j int) bool {
		return batch.Results[i].EntityID < batch.Results[j].EntityID
	})
	sort.Slice(batch.Errors, func(i, j int) bool {
		return batch.Errors[i].EntityID < batch.Errors[j].EntityID
	})

	// --- 4. Record rows and end run tracking ---
	if store != nil && runID > 0 {
		for i := range batch.Results {
			recordEntityResult(store, runID, &batch.Results[i])
		}
		if err := store.EndRun(runID, time.Now(), len(batch.Results)); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	return batch, nil
}

// runEntity normalizes one entity's series and runs the pass selected by the
// run mode. Per-entity parameter overrides from the input rows win over the
// global configuration.
func runEntity(cfg *contract.Config, entityID string, rows []schema.PeriodRow) entityOutcome {
	normalized, err := NormalizeSeries(entityID, rows, cfg.Interval)
	if err != nil {
		return entityOutcome{err: &schema.EntityError{EntityID: entityID, Err: err}}
	}

	result := &schema.EntityResult{EntityID: entityID}
	switch cfg.Mode {
	case schema.PolicyMode:
		result.Policy, err = AnalyzeSeries(entityID, normalized, entityPolicyParams(cfg, normalized))
	case schema.PlanMode:
		horizon := resolveHorizon(cfg, normalized)
		result.Plan, err = PlanSeries(entityID, normalized, entityPlanParams(cfg, normalized), horizon)
	default:
		result.Projection, err = ProjectSeries(entityID, normalized)
	}
	if err != nil {
		return entityOutcome{err: &schema.EntityError{EntityID: entityID, Err: err}}
	}

	return entityOutcome{result: result}
}

// entityPolicyParams resolves the coverage band for one entity. The first row
// carrying an override wins; otherwise the global configuration applies.
func entityPolicyParams(cfg *contract.Config, rows []schema.PeriodRow) PolicyParams {
	params := PolicyParams{MinCoverage: cfg.MinCoverage, MaxCoverage: cfg.MaxCoverage}
	for _, row := range rows {
		if row.MinCoverage != nil {
			params.MinCoverage = *row.MinCoverage
			break
		}
	}
	for _, row := range rows {
		if row.MaxCoverage != nil {
			params.MaxCoverage = *row.MaxCoverage
			break
		}
	}
	return params
}

// entityPlanParams resolves the replenishment parameters for one entity.
func entityPlanParams(cfg *contract.Config, rows []schema.PeriodRow) PlanParams {
	params := PlanParams{
		SafetyCoverage: cfg.SafetyCoverage,
		ReplenDuration: cfg.ReplenDuration,
		MOQ:            cfg.MOQ,
	}
	for _, row := range rows {
		if row.SafetyCoverage != nil {
			params.SafetyCoverage = *row.SafetyCoverage
			break
		}
	}
	for _, row := range rows {
		if row.ReplenDuration != nil {
			params.ReplenDuration = *row.ReplenDuration
			break
		}
	}
	for _, row := range rows {
		if row.MOQ != nil {
			params.MOQ = *row.MOQ
			break
		}
	}
	return params
}

// resolveHorizon builds the per-period horizon grid. Explicit statuses from
// the input win; blank cells in a partially specified grid default to free.
// With no explicit statuses at all, the configured frozen prefix applies.
func resolveHorizon(cfg *contract.Config, rows []schema.PeriodRow) []schema.HorizonStatus {
	horizon := make([]schema.HorizonStatus, len(rows))
	hasExplicit := false
	for i, row := range rows {
		horizon[i] = row.Horizon
		if row.Horizon != "" {
			hasExplicit = true
		}
	}

	if !hasExplicit {
		for i := range horizon {
			if i < cfg.FrozenPeriods {
				horizon[i] = schema.FrozenHorizon
			} else {
				horizon[i] = schema.FreeHorizon
			}
		}
		return horizon
	}

	for i := range horizon {
		if horizon[i] == "" {
			horizon[i] = schema.FreeHorizon
		}
	}
	return horizon
}

// recordEntityResult converts one entity's rows into store records and writes
// them. Tracking failures are logged, never fatal to the run.
func recordEntityResult(store contract.PlanStore, runID int64, result *schema.EntityResult) {
	records := make([]schema.PlanRowRecord, 0, len(result.Projection)+len(result.Policy)+len(result.Plan))

	for _, row := range result.Projection {
		records = append(records, schema.PlanRowRecord{
			RunID:              runID,
			EntityID:           result.EntityID,
			Period:             row.Period,
			Demand:             row.Demand,
			ScheduledSupply:    row.ScheduledSupply,
			ProjectedInventory: row.ProjectedInventory,
			Coverage:           coveragePtr(row.Coverage),
		})
	}
	for _, row := range result.Policy {
		records = append(records, schema.PlanRowRecord{
			RunID:              runID,
			EntityID:           result.EntityID,
			Period:             row.Period,
			Demand:             row.Demand,
			ScheduledSupply:    row.ScheduledSupply,
			ProjectedInventory: row.ProjectedInventory,
			Coverage:           coveragePtr(row.Coverage),
			SafetyStockQty:     floatPtr(row.SafetyStockQty),
			MaximumStockQty:    floatPtr(row.MaximumStockQty),
			Classification:     stringPtr(string(row.Classification)),
		})
	}
	for _, row := range result.Plan {
		records = append(records, schema.PlanRowRecord{
			RunID:              runID,
			EntityID:           result.EntityID,
			Period:             row.Period,
			Demand:             row.Demand,
			ScheduledSupply:    row.ScheduledSupply,
			ProjectedInventory: row.ProjectedInventory,
			Coverage:           coveragePtr(row.Coverage),
			SuggestedQty:       floatPtr(row.SuggestedQty),
			HorizonStatus:      stringPtr(string(row.Horizon)),
		})
	}

	if err := store.RecordEntityRows(runID, result.EntityID, records); err != nil {
		contract.LogWarn("Run tracking failed for "+result.EntityID, err)
	}
}

// coveragePtr maps finite coverage to a plain float pointer and the
// beyond-horizon sentinel to nil, keeping records storable in backends that
// reject non-finite doubles.
func coveragePtr(c schema.Coverage) *float64 {
	if c.IsBeyondHorizon() {
		return nil
	}
	v := float64(c)
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func stringPtr(s string) *string {
	return &s
}
