// Package structparse extracts structurally significant declaration
// spans from source text using tree-sitter grammars, with a per-language
// keyword fallback when no grammar is available.
package structparse

import (
	"sync"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/alexaandru/go-sitter-forest/c"
	"github.com/alexaandru/go-sitter-forest/cpp"
	golang "github.com/alexaandru/go-sitter-forest/go"
	"github.com/alexaandru/go-sitter-forest/java"
	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/python"
	"github.com/alexaandru/go-sitter-forest/ruby"
	"github.com/alexaandru/go-sitter-forest/rust"
	"github.com/alexaandru/go-sitter-forest/typescript"
)

// languageFuncs maps language identifiers to their tree-sitter grammar
// constructors. Languages outside this table take the fallback path.
var languageFuncs = map[string]func() unsafe.Pointer{
	"c":          c.GetLanguage,
	"cpp":        cpp.GetLanguage,
	"go":         golang.GetLanguage,
	"java":       java.GetLanguage,
	"javascript": javascript.GetLanguage,
	"python":     python.GetLanguage,
	"ruby":       ruby.GetLanguage,
	"rust":       rust.GetLanguage,
	"typescript": typescript.GetLanguage,
}

var languageCache sync.Map

// GetLanguage returns the tree-sitter Language for the given identifier,
// or nil if no grammar is wired. Languages are initialized lazily and
// cached process-wide.
func GetLanguage(name string) *sitter.Language {
	if cached, ok := languageCache.Load(name); ok {
		lang, castOK := cached.(*sitter.Language)
		if castOK {
			return lang
		}
	}

	fn, ok := languageFuncs[name]
	if !ok {
		return nil
	}

	lang := sitter.NewLanguage(fn())
	languageCache.Store(name, lang)

	return lang
}

// Supported reports whether a grammar is wired for the language.
func Supported(name string) bool {
	_, ok := languageFuncs[name]

	return ok
}
