// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"time"

	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteProjection writes projection results using the configured output format.
func (ow *OutWriter) WriteProjection(results []schema.EntityResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteProjectionResults(w, results, cfg, duration)
	}, "Wrote projection results")
}

// WritePolicy writes stock policy analysis results using the configured output format.
func (ow *OutWriter) WritePolicy(results []schema.EntityResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WritePolicyResults(w, results, cfg, duration)
	}, "Wrote policy results")
}

// WritePlan writes replenishment plan results using the configured output format.
func (ow *OutWriter) WritePlan(results []schema.EntityResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WritePlanResults(w, results, cfg, duration)
	}, "Wrote plan results")
}

// WriteComparison writes a scenario comparison using the configured output format.
func (ow *OutWriter) WriteComparison(comparison schema.ScenarioComparison, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteComparisonResults(w, comparison, cfg, duration)
	}, "Wrote comparison results")
}

// WriteSummary writes run summary metrics using the configured output format.
func (ow *OutWriter) WriteSummary(summary schema.PlanSummary, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSummaryResults(w, summary, cfg, duration)
	}, "Wrote summary metrics")
}

// WriteGate writes a threshold gate report using the configured output format.
func (ow *OutWriter) WriteGate(result schema.GateResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteGateResults(w, result, cfg)
	}, "Wrote gate report")
}
