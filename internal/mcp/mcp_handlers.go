package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/scanwork/deltascan/core"
	"github.com/scanwork/deltascan/internal/contract"
	"github.com/scanwork/deltascan/internal/inventory"
	"github.com/scanwork/deltascan/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.RunStore
}

func (h *toolHandler) handleDiffInventories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.OldInventory = request.GetString("old_inventory", "")
	cfg.NewInventory = request.GetString("new_inventory", "")
	if cfg.OldInventory == "" || cfg.NewInventory == "" {
		return mcp.NewToolResultError("both old_inventory and new_inventory are required"), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	cfg.AllDeltas = request.GetBool("all", cfg.AllDeltas)
	if attrs := request.GetString("attributes", ""); attrs != "" {
		if err := contract.RevalidateAttributes(cfg, attrs); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid attributes: %v", err)), nil
		}
	}

	report, err := core.DiffInventories(ctx, cfg, inventory.NewLoader(), h.store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("diff failed: %v", err)), nil
	}

	result := struct {
		Deltas  any `json:"deltas"`
		Summary any `json:"summary"`
	}{
		Deltas:  limitDeltas(report, cfg),
		Summary: report.Summary,
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetScoringMetrics(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := struct {
		Weights  map[string]float64 `json:"weights"`
		Severity map[string]float64 `json:"severity_min_scores"`
	}{
		Weights: make(map[string]float64, len(h.baseCfg.ComputedWeights)),
		Severity: map[string]float64{
			contract.CriticalValue: contract.CriticalMinScore,
			contract.HighValue:     contract.HighMinScore,
			contract.ModerateValue: contract.ModerateMinScore,
			contract.LowValue:      contract.LowMinScore,
		},
	}
	for key, w := range h.baseCfg.ComputedWeights {
		result.Weights[string(key)] = w
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// limitDeltas applies the display filter and limit to a report's deltas.
func limitDeltas(report *schema.Report, cfg *contract.Config) []schema.Delta {
	deltas := report.Deltas
	if !cfg.AllDeltas {
		shown := make([]schema.Delta, 0, len(deltas))
		for _, d := range deltas {
			if d.Kind != schema.UnmodifiedKind {
				shown = append(shown, d)
			}
		}
		deltas = shown
	}
	if len(deltas) > cfg.ResultLimit {
		deltas = deltas[:cfg.ResultLimit]
	}
	return deltas
}
