package structparse

import (
	"context"
	"errors"
	"fmt"
	"sort"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Kind classifies a declaration span.
type Kind int

// Declaration kind constants.
const (
	KindImport Kind = iota
	KindType
	KindFunction
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindType:
		return "type"
	case KindFunction:
		return "function"
	case KindValue:
		return "value"
	default:
		return "unknown"
	}
}

// Span is one declaration located by source position. Lines and columns
// are zero-based, matching tree-sitter points.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	Kind      Kind
}

// ErrUnsupported indicates no grammar is wired for the language. It is
// the signal to fall back to keyword extraction, never a fatal error.
var ErrUnsupported = errors.New("no grammar for language")

// errNoRootNode indicates tree-sitter produced an empty tree.
var errNoRootNode = errors.New("no root node")

// declKinds maps tree-sitter node types to declaration kinds, per
// language. Only node types present here are extracted.
var declKinds = map[string]map[string]Kind{
	"go": {
		"import_declaration":   KindImport,
		"type_declaration":     KindType,
		"function_declaration": KindFunction,
		"method_declaration":   KindFunction,
		"const_declaration":    KindValue,
		"var_declaration":      KindValue,
	},
	"python": {
		"import_statement":      KindImport,
		"import_from_statement": KindImport,
		"class_definition":      KindType,
		"function_definition":   KindFunction,
	},
	"javascript": {
		"import_statement":     KindImport,
		"class_declaration":    KindType,
		"function_declaration": KindFunction,
		"generator_function_declaration": KindFunction,
		"method_definition":    KindFunction,
		"lexical_declaration":  KindValue,
		"variable_declaration": KindValue,
	},
	"typescript": {
		"import_statement":       KindImport,
		"class_declaration":      KindType,
		"interface_declaration":  KindType,
		"type_alias_declaration": KindType,
		"enum_declaration":       KindType,
		"function_declaration":   KindFunction,
		"method_definition":      KindFunction,
		"lexical_declaration":    KindValue,
	},
	"java": {
		"import_declaration":    KindImport,
		"class_declaration":     KindType,
		"interface_declaration": KindType,
		"enum_declaration":      KindType,
		"record_declaration":    KindType,
		"method_declaration":    KindFunction,
		"constructor_declaration": KindFunction,
		"field_declaration":     KindValue,
	},
	"rust": {
		"use_declaration": KindImport,
		"struct_item":     KindType,
		"enum_item":       KindType,
		"trait_item":      KindType,
		"impl_item":       KindType,
		"mod_item":        KindType,
		"function_item":   KindFunction,
		"const_item":      KindValue,
		"static_item":     KindValue,
	},
	"c": {
		"preproc_include":     KindImport,
		"struct_specifier":    KindType,
		"enum_specifier":      KindType,
		"type_definition":     KindType,
		"function_definition": KindFunction,
	},
	"cpp": {
		"preproc_include":      KindImport,
		"struct_specifier":     KindType,
		"class_specifier":      KindType,
		"enum_specifier":       KindType,
		"type_definition":      KindType,
		"namespace_definition": KindType,
		"function_definition":  KindFunction,
		"template_declaration": KindFunction,
	},
	"ruby": {
		"class":  KindType,
		"module": KindType,
		"method": KindFunction,
		"singleton_method": KindFunction,
	},
}

// Extract parses content with the wired grammar for language and returns
// every declaration span the grammar knows about, sorted by source
// position and deduplicated. Returns ErrUnsupported when no grammar is
// wired so the caller can fall back.
func Extract(ctx context.Context, content []byte, language string) ([]Span, error) {
	lang := GetLanguage(language)
	if lang == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, language)
	}

	kinds := declKinds[language]

	tsParser := sitter.NewParser()
	tsParser.SetLanguage(lang)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", language, err)
	}

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	var spans []Span

	walk(root, kinds, &spans)

	return dedupeSpans(spans), nil
}

// walk visits every named node and records those whose type is a known
// declaration. Nested declarations (methods inside classes) are found by
// always descending.
func walk(tsNode sitter.Node, kinds map[string]Kind, spans *[]Span) {
	if kind, ok := kinds[tsNode.Type()]; ok {
		start := tsNode.StartPoint()
		end := tsNode.EndPoint()

		*spans = append(*spans, Span{
			StartLine: int(start.Row),
			StartCol:  int(start.Column),
			EndLine:   int(end.Row),
			Kind:      kind,
		})
	}

	for idx := range tsNode.NamedChildCount() {
		walk(tsNode.NamedChild(idx), kinds, spans)
	}
}

// dedupeSpans sorts spans by start position and collapses duplicates in
// one pass. Repeated or overlapping matches on the same start position
// keep the first occurrence, making extraction deterministic.
func dedupeSpans(spans []Span) []Span {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].StartLine != spans[j].StartLine {
			return spans[i].StartLine < spans[j].StartLine
		}

		return spans[i].StartCol < spans[j].StartCol
	})

	deduped := spans[:0]

	for _, span := range spans {
		if len(deduped) > 0 {
			prev := deduped[len(deduped)-1]
			if prev.StartLine == span.StartLine && prev.StartCol == span.StartCol {
				continue
			}
		}

		deduped = append(deduped, span)
	}

	return deduped
}
