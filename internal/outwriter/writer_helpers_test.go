package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatter(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{name: "precision 2", precision: 2, value: 0.87654, expected: "0.88"},
		{name: "precision 1", precision: 1, value: 0.5, expected: "0.5"},
		{name: "precision 4", precision: 4, value: 0.123456, expected: "0.1235"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, createFormatter(tt.precision)(tt.value))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{
			name:     "array",
			data:     []string{"a", "b"},
			expected: "[\n  \"a\",\n  \"b\"\n]\n",
		},
		{
			name:     "string",
			data:     "hello",
			expected: `"hello"` + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeJSON(&buf, tt.data))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteCSVWithHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		expected string
	}{
		{
			name:     "simple csv",
			header:   []string{"name", "score"},
			rows:     [][]string{{"Data Scientist", "0.82"}, {"Nurse", "0.31"}},
			expected: "name,score\nData Scientist,0.82\nNurse,0.31\n",
		},
		{
			name:     "empty rows",
			header:   []string{"col1", "col2"},
			expected: "col1,col2\n",
		},
		{
			name:     "values with commas",
			header:   []string{"name", "description"},
			rows:     [][]string{{"DAAD", "Study, research"}},
			expected: "name,description\nDAAD,\"Study, research\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeCSVWithHeader(&buf, tt.header, func(w *csv.Writer) error {
				for _, row := range tt.rows {
					if err := w.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteCSVWithHeaderError(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error {
		return assert.AnError
	})
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		called := false
		err := writeWithFile("", func(io.Writer) error {
			called = true
			return nil
		}, "Test message")
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("file", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "out.json")
		err := writeWithFile(tmpFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{"name": "integration", "count": 3})
		}, "Wrote JSON")
		require.NoError(t, err)

		content, err := os.ReadFile(tmpFile)
		require.NoError(t, err)
		var result map[string]any
		require.NoError(t, json.Unmarshal(content, &result))
		assert.Equal(t, "integration", result["name"])
		assert.Equal(t, float64(3), result["count"])
	})

	t.Run("writer error", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(tmpFile, func(io.Writer) error { return assert.AnError }, "Test message")
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("invalid path", func(t *testing.T) {
		err := writeWithFile("/nonexistent/path/file.txt", func(io.Writer) error { return nil }, "Test message")
		require.Error(t, err)
	})
}

func TestWriteCSVIntegration(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "out.csv")
	err := writeWithFile(tmpFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, []string{"name", "score"}, func(cw *csv.Writer) error {
			return cw.Write([]string{"Nurse", "0.40"})
		})
	}, "Wrote CSV")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Equal(t, []string{"name,score", "Nurse,0.40"}, lines)
}
