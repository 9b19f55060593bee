package structparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackExtract_GenericPatterns(t *testing.T) {
	t.Parallel()

	lines := []string{
		"import something",
		"",
		"class Widget:",
		"    def render(self):",
		"        pass",
		"const answer = 42",
		"just prose",
	}

	spans := FallbackExtract(lines, "unknown-lang")

	require.Len(t, spans, 4)
	assert.Equal(t, Span{StartLine: 0, EndLine: 0, Kind: KindImport}, spans[0])
	assert.Equal(t, Span{StartLine: 2, EndLine: 2, Kind: KindType}, spans[1])
	assert.Equal(t, Span{StartLine: 3, EndLine: 3, Kind: KindFunction}, spans[2])
	assert.Equal(t, Span{StartLine: 5, EndLine: 5, Kind: KindValue}, spans[3])
}

func TestFallbackExtract_ShellPatterns(t *testing.T) {
	t.Parallel()

	lines := []string{
		"source ./env.sh",
		"deploy() {",
		"  echo deploying",
		"}",
		"function cleanup {",
	}

	spans := FallbackExtract(lines, "shell")

	require.Len(t, spans, 3)
	assert.Equal(t, KindImport, spans[0].Kind)
	assert.Equal(t, KindFunction, spans[1].Kind)
	assert.Equal(t, KindFunction, spans[2].Kind)
}

func TestFallbackExtract_KotlinPatterns(t *testing.T) {
	t.Parallel()

	lines := []string{
		"import kotlin.io.path",
		"data class Point(val x: Int)",
		"fun distance(a: Point, b: Point): Double {",
		"val origin = Point(0)",
	}

	spans := FallbackExtract(lines, "kotlin")

	require.Len(t, spans, 4)
	assert.Equal(t, KindImport, spans[0].Kind)
	assert.Equal(t, KindType, spans[1].Kind)
	assert.Equal(t, KindFunction, spans[2].Kind)
	assert.Equal(t, KindValue, spans[3].Kind)
}

func TestFallbackExtract_OnePatternPerLine(t *testing.T) {
	t.Parallel()

	// A line matching multiple patterns yields exactly one span.
	spans := FallbackExtract([]string{"type foo = func bar"}, "unknown")

	assert.Len(t, spans, 1)
}

func TestFallbackExtract_Deterministic(t *testing.T) {
	t.Parallel()

	lines := []string{"import a", "def b():", "class C:"}

	assert.Equal(t, FallbackExtract(lines, "x"), FallbackExtract(lines, "x"))
}

func TestFallbackExtract_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FallbackExtract(nil, "go"))
	assert.Empty(t, FallbackExtract([]string{""}, "go"))
}
