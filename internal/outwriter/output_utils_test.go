package outwriter

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{
			name:      "precision 2",
			precision: 2,
			value:     3.14159,
			expected:  "3.14",
		},
		{
			name:      "precision 0",
			precision: 0,
			value:     3.14159,
			expected:  "3",
		},
		{
			name:      "precision 4",
			precision: 4,
			value:     3.14159,
			expected:  "3.1416",
		},
		{
			name:      "negative value",
			precision: 2,
			value:     -42.567,
			expected:  "-42.57",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
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
			name: "simple object",
			data: map[string]any{
				"name":  "test",
				"value": 42,
			},
			expected: `{
  "name": "test",
  "value": 42
}
`,
		},
		{
			name: "array",
			data: []string{"a", "b", "c"},
			expected: `[
  "a",
  "b",
  "c"
]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeJSON(&buf, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteJSONError(t *testing.T) {
	// Test with a value that can't be marshaled to JSON
	invalidData := make(chan int)
	var buf bytes.Buffer
	err := writeJSON(&buf, invalidData)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteWithFileStdout(t *testing.T) {
	// Test writing to stdout (empty string means stdout)
	called := false
	err := writeWithFile("", func(w io.Writer) error {
		called = true
		_, err := w.Write([]byte("test"))
		return err
	}, "Test message")

	require.NoError(t, err)
	assert.True(t, called, "Writer function should have been called")
}

func TestWriteWithFileActualFile(t *testing.T) {
	// Create a temporary file for testing
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.txt")

	// Test writing to an actual file
	testContent := "test content"
	err := writeWithFile(tmpFile, func(w io.Writer) error {
		_, err := w.Write([]byte(testContent))
		return err
	}, "Test message")

	require.NoError(t, err)

	// Verify file content
	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, string(content))
}

func TestWriteWithFileError(t *testing.T) {
	// Test error propagation from writer function
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.txt")

	err := writeWithFile(tmpFile, func(io.Writer) error {
		return assert.AnError
	}, "Test message")

	require.Error(t, err)
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFileInvalidPath(t *testing.T) {
	// Test with an invalid file path (should fail on file open)
	err := writeWithFile("/nonexistent/path/file.txt", func(io.Writer) error {
		return nil
	}, "Test message")

	require.Error(t, err)
}

func TestLimitEntities(t *testing.T) {
	results := []schema.EntityResult{
		{EntityID: "SKU-A"},
		{EntityID: "SKU-B"},
		{EntityID: "SKU-C"},
	}

	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{
			name:     "limit below count",
			limit:    2,
			expected: 2,
		},
		{
			name:     "limit above count",
			limit:    10,
			expected: 3,
		},
		{
			name:     "limit equals count",
			limit:    3,
			expected: 3,
		},
		{
			name:     "zero limit disables capping",
			limit:    0,
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shown := limitEntities(results, tt.limit)
			assert.Len(t, shown, tt.expected)
			if len(shown) > 0 {
				assert.Equal(t, "SKU-A", shown[0].EntityID)
			}
		})
	}
}

func TestCountRows(t *testing.T) {
	results := []schema.EntityResult{
		{
			EntityID:   "SKU-A",
			Projection: []schema.ProjectionRow{{}, {}},
		},
		{
			EntityID: "SKU-B",
			Policy:   []schema.PolicyRow{{}, {}, {}},
		},
		{
			EntityID: "SKU-C",
			Plan:     []schema.PlanRow{{}},
		},
	}

	assert.Equal(t, 6, countRows(results))
	assert.Equal(t, 0, countRows(nil))
}

func TestClassLabel(t *testing.T) {
	// Plain labels carry no escape codes
	assert.Equal(t, "Shortage", classLabel(schema.ShortageClass, false))
	assert.Equal(t, "OK", classLabel(schema.OKClass, false))

	// Colored labels still contain the class text
	assert.Contains(t, classLabel(schema.AlertClass, true), "Alert")
}

func TestGetMaxTableEntityWidth(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		fixedWidth int
		expected   int
	}{
		{
			name:       "wide terminal hits the cap",
			width:      200,
			fixedWidth: 48,
			expected:   40,
		},
		{
			name:       "standard terminal",
			width:      100,
			fixedWidth: 48,
			expected:   32,
		},
		{
			name:       "narrow terminal hits the floor",
			width:      80,
			fixedWidth: 78,
			expected:   10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, getMaxTableEntityWidth(cfg, tt.fixedWidth))
		})
	}
}
