package emit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/viewfang/pkg/config"
	"github.com/Sumatoshi-tech/viewfang/pkg/view"
)

func sampleResult() *view.Result {
	return &view.Result{
		SchemaVersion: view.SchemaVersion,
		Source:        "main.go",
		Mode:          config.ModePlain,
		Encoding:      "utf-8",
		Lines:         []string{"package main", "func main() {}"},
		SourceLines:   2,
		SourceBytes:   28,
	}
}

func TestEmit_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := &config.Config{Format: config.FormatText}

	require.NoError(t, New(&buf, cfg).Emit(sampleResult()))

	assert.Equal(t, "package main\nfunc main() {}\n", buf.String())
}

func TestEmit_TextTokensMode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := &config.Config{Format: config.FormatText}

	res := sampleResult()
	res.Mode = config.ModeTokens
	res.Tokens = []string{"package", "main"}

	require.NoError(t, New(&buf, cfg).Emit(res))

	assert.Equal(t, "package\nmain\n", buf.String())
}

func TestEmit_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := &config.Config{Format: config.FormatJSON}

	require.NoError(t, New(&buf, cfg).Emit(sampleResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, float64(1), decoded["schema_version"])
	assert.Equal(t, "main.go", decoded["source"])
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestEmit_JSONPretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := &config.Config{Format: config.FormatJSON, PrettyJSON: true}

	require.NoError(t, New(&buf, cfg).Emit(sampleResult()))

	assert.Contains(t, buf.String(), "\n  \"schema_version\"")
}

func TestEmit_JSONValidates(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := &config.Config{Format: config.FormatJSON, ValidateOutput: true}

	assert.NoError(t, New(&buf, cfg).Emit(sampleResult()))
}

func TestEmit_JSONValidationFailureStillWrites(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := &config.Config{Format: config.FormatJSON, ValidateOutput: true}

	res := sampleResult()
	res.SchemaVersion = 99 // Violates the const in the schema.

	err := New(&buf, cfg).Emit(res)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaValidation)
	assert.NotEmpty(t, buf.String(), "bytes are written before validation runs")
}

func TestEmit_EmptyLinesSerializeAsArray(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := &config.Config{Format: config.FormatJSON}

	res := sampleResult()
	res.Lines = []string{}

	require.NoError(t, New(&buf, cfg).Emit(res))

	assert.Contains(t, buf.String(), `"lines":[]`)
	assert.NotContains(t, buf.String(), `"lines":null`)
}
