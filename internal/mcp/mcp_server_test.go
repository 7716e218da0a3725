package mcp_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/garima1kafle/path2prep/core"
	"github.com/garima1kafle/path2prep/internal/contract"
	mcp_internal "github.com/garima1kafle/path2prep/internal/mcp"
	"github.com/garima1kafle/path2prep/schema"
	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scholarshipsJSON = `[
  {"title": "DAAD", "description": "Masters study in Germany for computer science students"},
  {"title": "Nursing Grant", "description": "Support for healthcare and nursing students"},
  {"title": "Closed Award", "description": "Computer science in Germany", "is_active": false}
]`

const careersJSON = `[{"name": "Data Scientist"}, {"name": "Nurse"}]`

const profilesJSON = `[{"user": "asha", "major": "Computer Science", "target_country": "Germany", "degree_level": "Master's"}]`

func newTestServer(t *testing.T) *server.MCPServer {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	cfg := &contract.Config{
		ResultLimit:      5,
		ProfilePath:      write("profiles.json", profilesJSON),
		CareersPath:      write("careers.json", careersJSON),
		ScholarshipsPath: write("scholarships.json", scholarshipsJSON),
		ModelsDir:        dir,
		EmbedDim:         contract.DefaultEmbeddingDim,
		EmbedMaxSeqLen:   contract.DefaultMaxSeqLen,
		LexicalEnabled:   true,
	}
	svc := core.NewService(cfg, nil)
	t.Cleanup(func() { _ = svc.Close() })
	return mcp_internal.NewMCPServer(cfg, svc)
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)
	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	t.Run("recommend_careers invalid top_k", func(t *testing.T) {
		res := callTool(t, s, "recommend_careers", map[string]any{"top_k": -1.0})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(t, res), "invalid top_k")
	})

	t.Run("match_scholarships bad profile json", func(t *testing.T) {
		res := callTool(t, s, "match_scholarships", map[string]any{"profile_json": "{not json"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "invalid profile_json")
	})
}

func TestMCPServerHandlers_MatchScholarships(t *testing.T) {
	s := newTestServer(t)

	res := callTool(t, s, "match_scholarships", map[string]any{"user": "asha", "top_k": 5.0})
	require.False(t, res.IsError, resultText(t, res))

	var results []schema.EnrichedResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &results))
	require.Len(t, results, 2, "inactive scholarships are not ranked")
	assert.Equal(t, "DAAD", results[0].Candidate.Name)
	assert.Equal(t, schema.MethodTFIDF, results[0].Method)
	assert.Equal(t, 1, results[0].Rank)
	assert.NotEmpty(t, results[0].Label)
}

func TestMCPServerHandlers_InlineProfile(t *testing.T) {
	s := newTestServer(t)

	res := callTool(t, s, "match_scholarships", map[string]any{
		"profile_json": `{"user": "ravi", "major": "Nursing", "interests": ["healthcare"]}`,
		"top_k":        1.0,
	})
	require.False(t, res.IsError, resultText(t, res))

	var results []schema.EnrichedResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Nursing Grant", results[0].Candidate.Name)
}

func TestMCPServerHandlers_RecommendCareersWithoutModels(t *testing.T) {
	s := newTestServer(t)

	res := callTool(t, s, "recommend_careers", map[string]any{"user": "asha"})
	require.False(t, res.IsError, resultText(t, res))

	var results []schema.EnrichedResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &results))
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, schema.DefaultScore, r.Score)
		assert.Equal(t, schema.MethodDefault, r.Method)
	}
}

func TestMCPServerHandlers_BackendStatus(t *testing.T) {
	s := newTestServer(t)

	res := callTool(t, s, "backend_status", nil)
	require.False(t, res.IsError)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rows))
	require.Len(t, rows, 5)
	assert.Equal(t, "random_forest", rows[0]["name"])
	assert.Equal(t, 0.4, rows[0]["weight"])
	assert.Equal(t, false, rows[0]["available"])
	assert.Equal(t, "tfidf", rows[3]["name"])
	assert.Equal(t, true, rows[3]["available"])
}
