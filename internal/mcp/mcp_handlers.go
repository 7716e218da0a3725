package mcp

import (
	"context"
	"fmt"

	"github.com/garima1kafle/path2prep/core"
	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/schema"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	svc     *core.Service
}

// backendWeight is one row of the backend_status tool.
type backendWeight struct {
	schema.BackendStatus
	Weight float64 `json:"weight"`
}

func (h *toolHandler) handleRecommendCareers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.rank(ctx, request, schema.CareerKind)
}

func (h *toolHandler) handleMatchScholarships(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.rank(ctx, request, schema.ScholarshipKind)
}

func (h *toolHandler) rank(ctx context.Context, request mcp.CallToolRequest, kind schema.CandidateKind) (*mcp.CallToolResult, error) {
	q := core.Query{
		Kind:   kind,
		User:   request.GetString("user", h.baseCfg.User),
		TopK:   request.GetInt("top_k", h.baseCfg.TopKFor(kind)),
		Source: "mcp",
	}
	if q.TopK <= 0 {
		return mcp.NewToolResultError(fmt.Sprintf("invalid top_k %d: must be a positive integer", q.TopK)), nil
	}
	if raw := request.GetString("profile_json", ""); raw != "" {
		var profile schema.Profile
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid profile_json: %v", err)), nil
		}
		q.Profile = &profile
	}

	ctx = core.WithRequestID(ctx, uuid.NewString())
	results, err := h.svc.Rank(ctx, q)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}

	enriched := schema.EnrichResults(results)
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleBackendStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	statuses := h.svc.Backends()
	rows := make([]backendWeight, len(statuses))
	for i, s := range statuses {
		rows[i] = backendWeight{BackendStatus: s, Weight: h.baseCfg.WeightsFor(s.Engine)[s.Name]}
	}
	jsonData, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
