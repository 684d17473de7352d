package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/planhorizon/stockcast/core"
	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// batchPayload is the JSON shape returned by the batch tools. Per-entity
// failures ride along with the successful results instead of failing the
// whole call.
type batchPayload struct {
	Mode    schema.RunMode        `json:"mode"`
	Results []schema.EntityResult `json:"results"`
	Errors  []entityFailure       `json:"errors,omitempty"`
}

type entityFailure struct {
	EntityID string `json:"entity_id"`
	Error    string `json:"error"`
}

// resolveBatchConfig clones the base config for one tool call and applies the
// parameters shared by every batch tool.
func (h *toolHandler) resolveBatchConfig(request mcp.CallToolRequest, mode schema.RunMode) (*contract.Config, error) {
	cfg := h.baseCfg.CloneWithMode(mode)

	inputPath, err := contract.ValidateInputPath(request.GetString("input_path", ""))
	if err != nil {
		return nil, err
	}
	cfg.InputPath = inputPath

	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	return cfg, nil
}

func (h *toolHandler) handleProjectInventory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveBatchConfig(request, schema.ProjectMode)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid projection parameters: %v", err)), nil
	}

	batch, _, err := core.GetBatchResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("projection failed: %v", err)), nil
	}

	return batchToolResult(batch, cfg.ResultLimit), nil
}

func (h *toolHandler) handleAnalyzeStockPolicy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveBatchConfig(request, schema.PolicyMode)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid policy parameters: %v", err)), nil
	}

	minCov := request.GetFloat("min_cov", cfg.MinCoverage)
	maxCov := request.GetFloat("max_cov", cfg.MaxCoverage)
	if err := contract.RevalidatePolicyBand(cfg, minCov, maxCov); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid policy parameters: %v", err)), nil
	}

	batch, _, err := core.GetBatchResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("policy analysis failed: %v", err)), nil
	}

	return batchToolResult(batch, cfg.ResultLimit), nil
}

func (h *toolHandler) handlePlanReplenishment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveBatchConfig(request, schema.PlanMode)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid plan parameters: %v", err)), nil
	}

	safetyCov := request.GetFloat("safety_cov", cfg.SafetyCoverage)
	replenDuration := request.GetInt("replen_duration", cfg.ReplenDuration)
	moq := request.GetFloat("moq", cfg.MOQ)
	frozen := request.GetInt("frozen", cfg.FrozenPeriods)
	if err := contract.RevalidatePlanParams(cfg, safetyCov, replenDuration, moq, frozen); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid plan parameters: %v", err)), nil
	}

	batch, _, err := core.GetBatchResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("replenishment planning failed: %v", err)), nil
	}

	return batchToolResult(batch, cfg.ResultLimit), nil
}

// batchToolResult shapes a batch into the indented JSON payload returned to
// the client. The entity limit mirrors the CLI writers.
func batchToolResult(batch *schema.BatchResult, limit int) *mcp.CallToolResult {
	results := batch.Results
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	payload := batchPayload{Mode: batch.Mode, Results: results}
	for _, entityErr := range batch.Errors {
		payload.Errors = append(payload.Errors, entityFailure{
			EntityID: entityErr.EntityID,
			Error:    entityErr.Err.Error(),
		})
	}

	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}
