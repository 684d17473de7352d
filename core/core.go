// Package core has core logic for projection, policy analysis and
// replenishment planning.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/internal/loader"
	"github.com/planhorizon/stockcast/internal/outwriter"
	"github.com/planhorizon/stockcast/schema"
)

// ExecutorFunc defines the function signature for executing different run modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// GetBatchResults loads the configured dataset and runs the batch engine in
// the mode carried by cfg. It returns the batch output together with the
// elapsed wall time. This is the data entry point shared by the CLI commands
// and the MCP server.
func GetBatchResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.BatchResult, time.Duration, error) {
	start := time.Now()
	dataset, err := loader.LoadDataset(cfg.InputPath)
	if err != nil {
		return nil, 0, err
	}
	batch, err := RunBatch(ctx, cfg, dataset, mgr)
	if err != nil {
		return nil, 0, err
	}
	return batch, time.Since(start), nil
}

// GetCompareResults runs the batch engine over the base and revised datasets
// and computes per-entity deltas between the two scenarios. Both runs share
// the same mode and parameters; only the input path differs.
func GetCompareResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.ScenarioComparison, time.Duration, error) {
	start := time.Now()

	baseCfg := cfg.Clone()
	baseCfg.InputPath = cfg.BaseInputPath
	baseBatch, _, err := GetBatchResults(ctx, baseCfg, mgr)
	if err != nil {
		return schema.ScenarioComparison{}, 0, fmt.Errorf("base scenario failed: %w", err)
	}

	revisedBatch, _, err := GetBatchResults(ctx, cfg, mgr)
	if err != nil {
		return schema.ScenarioComparison{}, 0, fmt.Errorf("revised scenario failed: %w", err)
	}

	comparison := CompareScenarios(baseBatch, revisedBatch, cfg.ResultLimit)
	return comparison, time.Since(start), nil
}

// executeBatch runs one batch in the mode carried by cfg and writes the rows
// for that mode.
func executeBatch(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	contract.LogRunHeader(cfg)
	batch, duration, err := GetBatchResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	logEntityErrors(batch.Errors)

	writer := outwriter.NewOutWriter()
	switch cfg.Mode {
	case schema.PolicyMode:
		return writer.WritePolicy(batch.Results, cfg, duration)
	case schema.PlanMode:
		return writer.WritePlan(batch.Results, cfg, duration)
	default:
		return writer.WriteProjection(batch.Results, cfg, duration)
	}
}

// ExecuteProjection runs the inventory projection pass and prints results.
// It serves as the main entry point for the 'project' command.
func ExecuteProjection(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	return executeBatch(ctx, cfg.CloneWithMode(schema.ProjectMode), mgr)
}

// ExecutePolicy runs the stock policy analysis pass and prints results.
// It serves as the main entry point for the 'policy' command.
func ExecutePolicy(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	return executeBatch(ctx, cfg.CloneWithMode(schema.PolicyMode), mgr)
}

// ExecutePlan runs the replenishment planning pass and prints results.
// It serves as the main entry point for the 'plan' command.
func ExecutePlan(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	return executeBatch(ctx, cfg.CloneWithMode(schema.PlanMode), mgr)
}

// ExecuteCompare runs the scenario comparison between the base and revised
// datasets and prints per-entity deltas.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	contract.LogCompareHeader(cfg)
	comparison, duration, err := GetCompareResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteComparison(comparison, cfg, duration)
}

// ExecuteMetrics runs a batch and prints the aggregate summary across all
// entities instead of per-period rows.
func ExecuteMetrics(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	contract.LogRunHeader(cfg)
	batch, duration, err := GetBatchResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	logEntityErrors(batch.Errors)
	summary := Summarize(batch)
	return outwriter.NewOutWriter().WriteSummary(summary, cfg, duration)
}

// ExecuteCheck runs the policy gate for CI/CD gating. It runs a batch in the
// mode carried by cfg, checks the output against the configured thresholds,
// and returns a non-zero exit code when any violation is found.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	batch, _, err := GetBatchResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	result := Gate(batch, cfg.Thresholds)
	if err := outwriter.NewOutWriter().WriteGate(result, cfg); err != nil {
		return err
	}

	if !result.Passed {
		fmt.Printf("%d violation(s) found\n", len(result.Violations))
		os.Exit(1)
	}
	return nil
}

// logEntityErrors reports per-entity failures on stderr. The batch itself
// still succeeds; failed entities are simply absent from the results.
func logEntityErrors(errs []schema.EntityError) {
	for _, entityErr := range errs {
		contract.LogWarn("Skipped "+entityErr.EntityID, entityErr.Err)
	}
}
