package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/viewfang/pkg/budget"
	"github.com/Sumatoshi-tech/viewfang/pkg/config"
	"github.com/Sumatoshi-tech/viewfang/pkg/reader"
)

// encodingUTF8 is the only encoding the pipeline emits; invalid input
// bytes are repaired upstream, never passed through.
const encodingUTF8 = "utf-8"

// Transformer produces the configured content view. The highlighting
// renderer is injected at start-up so tests can run against fakes.
type Transformer struct {
	cfg      *config.Config
	renderer Renderer
}

// NewTransformer creates a transformer for the resolved configuration.
// renderer may be nil when the mode never highlights.
func NewTransformer(cfg *config.Config, renderer Renderer) *Transformer {
	return &Transformer{cfg: cfg, renderer: renderer}
}

// Apply dispatches on the output mode and builds the final result.
func (t *Transformer) Apply(ctx context.Context, win *budget.Window, language string) (*Result, error) {
	res := &Result{
		SchemaVersion: SchemaVersion,
		Source:        t.cfg.Source,
		Mode:          t.cfg.Mode,
		Language:      language,
		Encoding:      encodingUTF8,
		SourceLines:   win.SourceLines,
		SourceBytes:   win.SourceBytes,
		Truncation:    win.Verdict,
	}

	if win.AnomalousLines > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"encoding-anomaly: %d line(s) contained invalid UTF-8, replaced with U+FFFD", win.AnomalousLines))
	}

	switch t.cfg.Mode {
	case config.ModePlain:
		res.Lines = t.plainLines(win.Lines)
	case config.ModeHighlight:
		res.Lines = t.highlightLines(win.Lines, language, res)
	case config.ModeSummary:
		t.summarize(ctx, win.Lines, language, res)
	case config.ModeTokens:
		t.tokenize(win, res)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownMode, t.cfg.Mode)
	}

	if res.Lines == nil {
		res.Lines = []string{}
	}

	return res, nil
}

// plainLines passes text through, applying the configured numbering.
func (t *Transformer) plainLines(lines []reader.Line) []string {
	out := make([]string, 0, len(lines))

	width := numberWidth(lines)

	for _, line := range lines {
		out = append(out, t.numbered(line, width))
	}

	return out
}

// highlightLines renders each line through the collaborator; a failing
// line degrades to its raw text and records one warning.
func (t *Transformer) highlightLines(lines []reader.Line, language string, res *Result) []string {
	out := make([]string, 0, len(lines))

	failures := 0

	for _, line := range lines {
		rendered, err := t.renderer.Render(line.Text, language, t.cfg.Theme)
		if err != nil {
			rendered = line.Text
			failures++
		}

		out = append(out, rendered)
	}

	if failures > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"highlight-failure: %d line(s) rendered without highlighting", failures))
	}

	return out
}

// numbered applies the fixed-width right-aligned counter. The nonblank
// style skips blank lines but keeps the gutter aligned.
func (t *Transformer) numbered(line reader.Line, width int) string {
	switch t.cfg.NumberStyle {
	case config.NumberAll:
		return fmt.Sprintf("%*d  %s", width, line.Index+1, line.Text)
	case config.NumberNonBlank:
		if strings.TrimSpace(line.Text) == "" {
			return fmt.Sprintf("%*s  %s", width, "", line.Text)
		}

		return fmt.Sprintf("%*d  %s", width, line.Index+1, line.Text)
	default:
		return line.Text
	}
}

// numberWidth returns the gutter width for the highest line number in
// the window, with a floor matching cat -n.
func numberWidth(lines []reader.Line) int {
	const minWidth = 6

	if len(lines) == 0 {
		return minWidth
	}

	highest := lines[len(lines)-1].Index + 1

	width := len(fmt.Sprintf("%d", highest))
	if width < minWidth {
		width = minWidth
	}

	return width
}
