package budget

import (
	"errors"
	"io"

	"github.com/Sumatoshi-tech/viewfang/pkg/config"
	"github.com/Sumatoshi-tech/viewfang/pkg/reader"
)

// Verdict records which limits actually bound the output. A flag is only
// set when that limit cut content that would otherwise have been emitted.
type Verdict struct {
	TruncatedByLines   bool `json:"truncated_by_lines"`
	TruncatedByBytes   bool `json:"truncated_by_bytes"`
	TruncatedByContext bool `json:"truncated_by_context"`
}

// Truncated reports whether any limit bound the output.
func (v Verdict) Truncated() bool {
	return v.TruncatedByLines || v.TruncatedByBytes || v.TruncatedByContext
}

// Window is the bounded line sequence the engine produced, together with
// the truncation verdict and full-source counts.
type Window struct {
	Lines   []reader.Line
	Verdict Verdict

	// SourceLines and SourceBytes count the whole source, including
	// content beyond the cut. The remainder is drained and counted
	// without being retained.
	SourceLines int
	SourceBytes int64

	// AnomalousLines counts lines that required UTF-8 repair.
	AnomalousLines int

	// EmittedBytes is the byte total of the lines kept in the window.
	EmittedBytes int64
}

// Engine applies the truncation rules in precedence order: explicit line
// range first, then the line cap, with an independent running byte cap;
// a context token budget trims from the tail last.
type Engine struct {
	cfg *config.Config
}

// NewEngine creates an engine bound to a resolved configuration.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Apply consumes the reader and returns the bounded window. Empty input
// and ranges past the end of the source yield empty windows, not errors.
func (e *Engine) Apply(src *reader.Reader) (*Window, error) {
	win := &Window{}

	collectErr := e.collect(src, win)
	if collectErr != nil {
		return nil, collectErr
	}

	if e.cfg.FitContext {
		e.fitContext(win)
	}

	win.AnomalousLines = src.Anomalies()

	return win, nil
}

// collect gathers in-range lines until a cap trips, then drains the rest
// of the source so the totals still describe the whole input.
//
// A tripped cap is held pending until a later in-range line proves the
// cap actually cut content; only then does its verdict flag set. This is
// what keeps exactly-max_lines inputs flag-free.
func (e *Engine) collect(src *reader.Reader, win *Window) error {
	var pendingLines, pendingBytes, capped bool

	for {
		line, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		win.SourceLines++
		win.SourceBytes += int64(line.Bytes)

		number := line.Index + 1 // Ranges are 1-based.
		if !e.cfg.Range.Contains(number) {
			continue
		}

		if capped {
			// A further in-range line exists, so the caps that
			// stopped collection were the binding constraints.
			win.Verdict.TruncatedByLines = win.Verdict.TruncatedByLines || pendingLines
			win.Verdict.TruncatedByBytes = win.Verdict.TruncatedByBytes || pendingBytes

			continue
		}

		win.Lines = append(win.Lines, line)
		win.EmittedBytes += int64(line.Bytes)

		if e.cfg.MaxLines > 0 && len(win.Lines) >= e.cfg.MaxLines {
			pendingLines = true
			capped = true
		}

		if e.cfg.MaxBytes > 0 && win.EmittedBytes >= e.cfg.MaxBytes {
			pendingBytes = true
			capped = true
		}
	}
}

// fitContext trims lines from the tail until the estimated token count
// plus the reserved prompt tokens fits the model's context window.
func (e *Engine) fitContext(win *Window) {
	model := LookupModel(e.cfg.Model)
	allowed := model.Budget(e.cfg.ReserveTokens)

	total := 0
	for _, line := range win.Lines {
		total += model.EstimateTokens(line.Text) + 1 // Newline token.
	}

	for len(win.Lines) > 0 && total > allowed {
		last := win.Lines[len(win.Lines)-1]
		total -= model.EstimateTokens(last.Text) + 1

		win.EmittedBytes -= int64(last.Bytes)
		win.Lines = win.Lines[:len(win.Lines)-1]
		win.Verdict.TruncatedByContext = true
	}
}
