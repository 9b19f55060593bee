// Package view turns a bounded line window into the requested content
// view: verbatim lines, highlighted lines, a structural summary, or a
// token list.
package view

import (
	"github.com/Sumatoshi-tech/viewfang/pkg/budget"
	"github.com/Sumatoshi-tech/viewfang/pkg/config"
)

// SchemaVersion tags every serialized result and chunk document.
const SchemaVersion = 1

// Result is the outcome of one pipeline invocation (or one chunk in
// streaming mode). Immutable once constructed.
type Result struct {
	SchemaVersion int         `json:"schema_version"`
	Source        string      `json:"source"`
	Mode          config.Mode `json:"mode"`
	Language      string      `json:"language,omitempty"`
	Encoding      string      `json:"encoding"`

	Lines []string `json:"lines"`

	Tokens        []string `json:"tokens,omitempty"`
	TokenSampling bool     `json:"token_sampling,omitempty"`

	// Source totals describe the whole input, not the emitted window.
	SourceLines int   `json:"source_lines"`
	SourceBytes int64 `json:"source_bytes"`

	Truncation budget.Verdict `json:"truncation"`

	Warnings []string `json:"warnings,omitempty"`
}

// Renderer is the highlighting collaborator. Failures are treated as
// per-line and non-fatal by the transformer.
type Renderer interface {
	Render(text, language, theme string) (string, error)
}
