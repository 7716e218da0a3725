// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/garima1kafle/path2prep/core"
	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the path2prep MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, svc *core.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"path2prep Ranking Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		svc:     svc,
	}

	// --- 1. Tool: recommend_careers ---
	s.AddTool(mcp.NewTool("recommend_careers",
		mcp.WithDescription("Rank careers for a student profile with the classifier ensemble (random forest, KNN, neural network)."),
		mcp.WithString("user", mcp.Description("User whose stored profile is ranked. Ignored when profile_json is set.")),
		mcp.WithString("profile_json", mcp.Description("Inline student profile as a JSON object.")),
		mcp.WithNumber("top_k", mcp.Description("Number of careers to return. Defaults to the configured limit, or 3.")),
	), h.handleRecommendCareers)

	// --- 2. Tool: match_scholarships ---
	s.AddTool(mcp.NewTool("match_scholarships",
		mcp.WithDescription("Match scholarships to a student profile by TF-IDF and sentence-embedding similarity."),
		mcp.WithString("user", mcp.Description("User whose stored profile is matched. Ignored when profile_json is set.")),
		mcp.WithString("profile_json", mcp.Description("Inline student profile as a JSON object.")),
		mcp.WithNumber("top_k", mcp.Description("Number of scholarships to return. Defaults to the configured limit, or 5.")),
	), h.handleMatchScholarships)

	// --- 3. Tool: backend_status ---
	s.AddTool(mcp.NewTool("backend_status",
		mcp.WithDescription("Report which scoring backends are loaded and the weights they contribute."),
	), h.handleBackendStatus)

	return s
}

// StartMCPServer builds the ranking service and serves MCP over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	svc := core.NewService(baseCfg, mgr)
	defer func() { _ = svc.Close() }()
	return server.ServeStdio(NewMCPServer(baseCfg, svc))
}
