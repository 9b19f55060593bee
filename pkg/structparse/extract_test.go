package structparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goSource = `package sample

import "fmt"

type Greeter struct {
	name string
}

func (g Greeter) Greet() string {
	return fmt.Sprintf("hello, %s", g.name)
}

func main() {
	fmt.Println(Greeter{name: "world"}.Greet())
}
`

func TestExtract_GoDeclarations(t *testing.T) {
	t.Parallel()

	spans, err := Extract(context.Background(), []byte(goSource), "go")

	require.NoError(t, err)

	kinds := make(map[Kind]int)
	for _, span := range spans {
		kinds[span.Kind]++
	}

	assert.Equal(t, 1, kinds[KindImport])
	assert.Equal(t, 1, kinds[KindType])
	assert.Equal(t, 2, kinds[KindFunction], "method and function both count")
}

func TestExtract_SpansSorted(t *testing.T) {
	t.Parallel()

	spans, err := Extract(context.Background(), []byte(goSource), "go")

	require.NoError(t, err)
	require.NotEmpty(t, spans)

	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]

		inOrder := prev.StartLine < cur.StartLine ||
			(prev.StartLine == cur.StartLine && prev.StartCol < cur.StartCol)

		assert.True(t, inOrder, "span %d out of order", i)
	}
}

func TestExtract_PythonNested(t *testing.T) {
	t.Parallel()

	src := []byte(`import os

class Widget:
    def render(self):
        return os.linesep
`)

	spans, err := Extract(context.Background(), src, "python")

	require.NoError(t, err)

	kinds := make(map[Kind]int)
	for _, span := range spans {
		kinds[span.Kind]++
	}

	assert.Equal(t, 1, kinds[KindImport])
	assert.Equal(t, 1, kinds[KindType])
	assert.Equal(t, 1, kinds[KindFunction], "methods inside classes are found")
}

func TestExtract_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	_, err := Extract(context.Background(), []byte("whatever"), "cobol")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()

	first, err1 := Extract(context.Background(), []byte(goSource), "go")
	second, err2 := Extract(context.Background(), []byte(goSource), "go")

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestSupported(t *testing.T) {
	t.Parallel()

	for _, lang := range []string{"go", "python", "javascript", "typescript", "java", "rust", "c", "cpp", "ruby"} {
		assert.True(t, Supported(lang), lang)
	}

	assert.False(t, Supported("cobol"))
	assert.False(t, Supported(""))
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "import", KindImport.String())
	assert.Equal(t, "type", KindType.String())
	assert.Equal(t, "function", KindFunction.String())
	assert.Equal(t, "value", KindValue.String())
}

func TestDedupeSpans_CollapsesSameStart(t *testing.T) {
	t.Parallel()

	spans := []Span{
		{StartLine: 5, StartCol: 0, Kind: KindFunction},
		{StartLine: 2, StartCol: 0, Kind: KindImport},
		{StartLine: 5, StartCol: 0, Kind: KindType},
		{StartLine: 5, StartCol: 4, Kind: KindValue},
	}

	got := dedupeSpans(spans)

	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].StartLine)
	assert.Equal(t, KindFunction, got[1].Kind, "first occurrence wins on ties")
	assert.Equal(t, 4, got[2].StartCol)
}
