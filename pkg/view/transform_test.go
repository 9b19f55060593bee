package view

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/viewfang/pkg/budget"
	"github.com/Sumatoshi-tech/viewfang/pkg/config"
	"github.com/Sumatoshi-tech/viewfang/pkg/reader"
)

// fakeRenderer wraps lines in markers, or fails on demand.
type fakeRenderer struct {
	failOn string
}

func (f *fakeRenderer) Render(text, _, _ string) (string, error) {
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return "", errors.New("render failed")
	}

	return "<" + text + ">", nil
}

// window builds a budget window from plain strings, indexes starting at
// startIndex.
func window(startIndex int, texts ...string) *budget.Window {
	win := &budget.Window{SourceLines: len(texts)}

	for i, text := range texts {
		line := reader.Line{Index: startIndex + i, Text: text, Bytes: len(text) + 1}
		win.Lines = append(win.Lines, line)
		win.EmittedBytes += int64(line.Bytes)
		win.SourceBytes += int64(line.Bytes)
	}

	return win
}

func TestApply_PlainMode(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Source: "f.txt", Mode: config.ModePlain}
	tr := NewTransformer(cfg, nil)

	res, err := tr.Apply(context.Background(), window(0, "one", "two"), "")

	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, res.SchemaVersion)
	assert.Equal(t, []string{"one", "two"}, res.Lines)
	assert.Equal(t, "utf-8", res.Encoding)
}

func TestApply_EmptyWindowYieldsEmptySlice(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Mode: config.ModePlain}
	tr := NewTransformer(cfg, nil)

	res, err := tr.Apply(context.Background(), &budget.Window{}, "")

	require.NoError(t, err)
	assert.NotNil(t, res.Lines, "lines serializes as [], never null")
	assert.Empty(t, res.Lines)
}

func TestApply_UnknownMode(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Mode: "bogus"}
	tr := NewTransformer(cfg, nil)

	_, err := tr.Apply(context.Background(), window(0, "x"), "")

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrUnknownMode)
}

func TestApply_NumberAll(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Mode: config.ModePlain, NumberStyle: config.NumberAll}
	tr := NewTransformer(cfg, nil)

	res, err := tr.Apply(context.Background(), window(0, "alpha", "beta"), "")

	require.NoError(t, err)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, "     1  alpha", res.Lines[0])
	assert.Equal(t, "     2  beta", res.Lines[1])
}

func TestApply_NumberNonBlankKeepsGutter(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Mode: config.ModePlain, NumberStyle: config.NumberNonBlank}
	tr := NewTransformer(cfg, nil)

	res, err := tr.Apply(context.Background(), window(0, "alpha", "", "beta"), "")

	require.NoError(t, err)
	require.Len(t, res.Lines, 3)
	assert.Equal(t, "     1  alpha", res.Lines[0])
	assert.Equal(t, "        ", res.Lines[1], "blank line keeps the gutter, no number")
	assert.Equal(t, "     3  beta", res.Lines[2])
}

func TestApply_NumbersUseSourcePositions(t *testing.T) {
	t.Parallel()

	// A range window starting at source line 40 numbers from 40, not 1.
	cfg := &config.Config{Mode: config.ModePlain, NumberStyle: config.NumberAll}
	tr := NewTransformer(cfg, nil)

	res, err := tr.Apply(context.Background(), window(39, "forty"), "")

	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "    40  forty", res.Lines[0])
}

func TestApply_HighlightMode(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Mode: config.ModeHighlight}
	tr := NewTransformer(cfg, &fakeRenderer{})

	res, err := tr.Apply(context.Background(), window(0, "a", "b"), "go")

	require.NoError(t, err)
	assert.Equal(t, []string{"<a>", "<b>"}, res.Lines)
	assert.Empty(t, res.Warnings)
}

func TestApply_HighlightFailureDegradesPerLine(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Mode: config.ModeHighlight}
	tr := NewTransformer(cfg, &fakeRenderer{failOn: "bad"})

	res, err := tr.Apply(context.Background(), window(0, "good", "bad line", "fine"), "go")

	require.NoError(t, err)
	assert.Equal(t, []string{"<good>", "bad line", "<fine>"}, res.Lines)

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "highlight-failure: 1 line(s)")
}

func TestApply_EncodingAnomalyWarning(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Mode: config.ModePlain}
	tr := NewTransformer(cfg, nil)

	win := window(0, "x")
	win.AnomalousLines = 2

	res, err := tr.Apply(context.Background(), win, "")

	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "encoding-anomaly: 2 line(s)")
}

func TestApply_VerdictAndTotalsCarried(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Mode: config.ModePlain}
	tr := NewTransformer(cfg, nil)

	win := window(0, "x")
	win.SourceLines = 10_000
	win.SourceBytes = 500_000
	win.Verdict.TruncatedByBytes = true

	res, err := tr.Apply(context.Background(), win, "")

	require.NoError(t, err)
	assert.Equal(t, 10_000, res.SourceLines)
	assert.Equal(t, int64(500_000), res.SourceBytes)
	assert.True(t, res.Truncation.TruncatedByBytes)
	assert.False(t, res.Truncation.TruncatedByLines)
}
