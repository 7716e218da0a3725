package outwriter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/schema"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []schema.ScoredCandidate {
	deadline := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)
	return []schema.ScoredCandidate{
		{
			Rank:      1,
			Candidate: schema.Candidate{Name: "DAAD", Organization: "DAAD", Country: "Germany", Deadline: &deadline},
			Score:     0.812,
			Method:    schema.MethodBlend,
			Breakdown: map[schema.Method]float64{schema.MethodEmbedding: 0.9, schema.MethodTFIDF: 0.6},
		},
		{
			Rank:      2,
			Candidate: schema.Candidate{Name: "Fulbright, Graduate", Country: "United States"},
			Score:     0.2,
			Method:    schema.MethodBlend,
			Breakdown: map[schema.Method]float64{schema.MethodEmbedding: 0.25, schema.MethodTFIDF: 0.1},
		},
	}
}

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		Precision:    2,
		Output:       output,
		Width:        200,
		Explain:      true,
		Detail:       true,
		CacheBackend: schema.SQLiteBackend,
	}
}

func TestWriteResultsTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(schema.TextOut)
	err := writeResultsTable(&buf, sampleResults(), schema.ScholarshipKind, cfg, createFormatter(2), 40*time.Millisecond)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "DAAD")
	assert.Contains(t, out, "0.81")
	assert.Contains(t, out, schema.StrongMatch)
	assert.Contains(t, out, schema.WeakMatch)
	assert.Contains(t, out, "tfidf=0.60")
	assert.Contains(t, out, "bert=0.90")
	assert.Contains(t, out, "2026-11-30")
	assert.Contains(t, out, "Showing top 2 scholarships (method: bert_tfidf_ensemble)")
	assert.Contains(t, out, "Cache backend: sqlite")
}

func TestWriteResultsTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := writeResultsTable(&buf, nil, schema.CareerKind, testConfig(schema.TextOut), createFormatter(2), time.Millisecond)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Showing top 0 careers (method: default)")
}

func TestWriteCSVResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVResults(&buf, sampleResults(), schema.ScholarshipKind, createFormatter(3)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rank,name,kind,score,label,method,breakdown,organization,country,deadline", lines[0])
	assert.Equal(t, "1,DAAD,scholarship,0.812,Strong,bert_tfidf_ensemble,tfidf=0.600 bert=0.900,DAAD,Germany,2026-11-30", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], `2,"Fulbright, Graduate",scholarship,0.200,Weak`))
}

func TestWriteJSONResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONResults(&buf, sampleResults()))

	var result []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 2)
	assert.Equal(t, float64(1), result[0]["rank"])
	assert.Equal(t, "Strong", result[0]["label"])
	assert.Equal(t, "bert_tfidf_ensemble", result[0]["method"])
	candidate, ok := result[0]["candidate"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "DAAD", candidate["name"])
}

func TestPrintResultsToFiles(t *testing.T) {
	dir := t.TempDir()
	for _, mode := range []schema.OutputMode{schema.JSONOut, schema.CSVOut, schema.ParquetOut, schema.TextOut} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := testConfig(mode)
			cfg.OutputFile = filepath.Join(dir, "results."+string(mode))
			require.NoError(t, PrintResults(sampleResults(), schema.ScholarshipKind, cfg, time.Second))

			info, err := os.Stat(cfg.OutputFile)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}
}

func TestPrintResultsParquetNeedsFile(t *testing.T) {
	err := PrintResults(sampleResults(), schema.CareerKind, testConfig(schema.ParquetOut), time.Second)
	require.Error(t, err)
}

func TestFormatBreakdown(t *testing.T) {
	f := createFormatter(2)
	assert.Equal(t, "Not applicable", formatBreakdown(nil, f))
	assert.Equal(t, "random_forest=0.40 knn=0.10 neural_network=0.25", formatBreakdown(map[schema.Method]float64{
		schema.MethodNeuralNet:    0.25,
		schema.MethodKNN:          0.1,
		schema.MethodRandomForest: 0.4,
	}, f))
}

func TestPrintBackends(t *testing.T) {
	statuses := []schema.BackendStatus{
		{Engine: schema.CareerKind, Name: schema.MethodRandomForest, Available: true},
		{Engine: schema.ScholarshipKind, Name: schema.MethodEmbedding, Reason: "model not found"},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		rows := []backendRow{{BackendStatus: statuses[0], Weight: 0.4}, {BackendStatus: statuses[1], Weight: 0.7}}
		require.NoError(t, writeBackendsTable(&buf, rows, testConfig(schema.TextOut), createFormatter(2)))
		out := buf.String()
		assert.Contains(t, out, "random_forest")
		assert.Contains(t, out, "model not found")
		assert.Contains(t, out, "1 of 2 backends available")
	})

	t.Run("json", func(t *testing.T) {
		cfg := testConfig(schema.JSONOut)
		cfg.OutputFile = filepath.Join(t.TempDir(), "backends.json")
		require.NoError(t, PrintBackends(statuses, cfg))

		content, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		var rows []map[string]any
		require.NoError(t, json.Unmarshal(content, &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, 0.4, rows[0]["weight"])
		assert.Equal(t, 0.7, rows[1]["weight"])
		assert.Equal(t, false, rows[1]["available"])
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		require.Error(t, PrintBackends(statuses, testConfig(schema.ParquetOut)))
	})
}

func TestGetMaxTableNameWidth(t *testing.T) {
	cfg := &contract.Config{Width: 80}
	assert.Equal(t, 35, GetMaxTableNameWidth(cfg))

	cfg.Width = 300
	assert.Equal(t, 60, GetMaxTableNameWidth(cfg))

	cfg = &contract.Config{Width: 60, Detail: true, Explain: true}
	assert.Equal(t, 15, GetMaxTableNameWidth(cfg))
}
