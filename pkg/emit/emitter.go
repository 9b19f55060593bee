// Package emit serializes pipeline results: plain text, a single JSON
// document, or a schema-tagged streaming JSON sequence.
package emit

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Sumatoshi-tech/viewfang/pkg/config"
	"github.com/Sumatoshi-tech/viewfang/pkg/view"
)

// jsonIndent is the pretty-print indentation.
const jsonIndent = "  "

// Emitter serializes a single Processing Result.
type Emitter struct {
	w   io.Writer
	cfg *config.Config
}

// New creates an emitter writing to w.
func New(w io.Writer, cfg *config.Config) *Emitter {
	return &Emitter{w: w, cfg: cfg}
}

// Emit writes the result in the configured format. When output
// validation is requested and fails, the returned error wraps
// ErrSchemaValidation. The bytes are written regardless, so callers
// report the failure without discarding output.
func (e *Emitter) Emit(res *view.Result) error {
	switch e.cfg.Format {
	case config.FormatText:
		return e.emitText(res)
	case config.FormatJSON:
		return e.emitJSON(res)
	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownFormat, e.cfg.Format)
	}
}

// emitText writes lines (or tokens, in tokens mode) one per row.
func (e *Emitter) emitText(res *view.Result) error {
	rows := res.Lines
	if res.Mode == config.ModeTokens {
		rows = res.Tokens
	}

	for _, row := range rows {
		_, err := fmt.Fprintln(e.w, row)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	return nil
}

// emitJSON writes the single result document, then optionally validates
// what was written.
func (e *Emitter) emitJSON(res *view.Result) error {
	var (
		data []byte
		err  error
	)

	if e.cfg.PrettyJSON {
		data, err = json.MarshalIndent(res, "", jsonIndent)
	} else {
		data, err = json.Marshal(res)
	}

	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, writeErr := e.w.Write(append(data, '\n'))
	if writeErr != nil {
		return fmt.Errorf("write output: %w", writeErr)
	}

	if e.cfg.ValidateOutput {
		return validateAgainst(SchemaResult, data)
	}

	return nil
}
