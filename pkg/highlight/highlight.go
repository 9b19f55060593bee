// Package highlight renders source text with ANSI colors. It wraps the
// chroma engine behind a small surface so the pipeline can run against
// fakes in tests.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// formatterName is the ANSI formatter used for terminal output.
const formatterName = "terminal256"

// Engine is a chroma-backed renderer. Construct it once at start-up and
// hand it to the pipeline; it holds no per-run state.
type Engine struct {
	formatter chroma.Formatter
}

// New creates a renderer using the 256-color terminal formatter.
func New() *Engine {
	return &Engine{formatter: formatters.Get(formatterName)}
}

// Render returns text with ANSI highlighting for the given language and
// theme. Unknown languages tokenize through the fallback lexer and
// unknown themes through the fallback style, so only tokenizer or
// formatter failures surface as errors.
func (e *Engine) Render(text, language, theme string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	lexer = chroma.Coalesce(lexer)

	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", language, err)
	}

	var buf strings.Builder

	formatErr := e.formatter.Format(&buf, style, iterator)
	if formatErr != nil {
		return "", fmt.Errorf("format %s: %w", language, formatErr)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}
