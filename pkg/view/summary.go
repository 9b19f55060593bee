package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/viewfang/pkg/config"
	"github.com/Sumatoshi-tech/viewfang/pkg/reader"
	"github.com/Sumatoshi-tech/viewfang/pkg/structparse"
)

// summarize extracts structurally significant lines at the configured
// depth. The grammar path and the keyword fallback are both
// deterministic for identical input.
func (t *Transformer) summarize(ctx context.Context, lines []reader.Line, language string, res *Result) {
	texts := make([]string, len(lines))
	for i, line := range lines {
		texts[i] = line.Text
	}

	spans, err := structparse.Extract(ctx, []byte(strings.Join(texts, "\n")), language)

	switch {
	case err == nil:
		// Grammar path.
	case errors.Is(err, structparse.ErrUnsupported):
		spans = structparse.FallbackExtract(texts, language)

		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"parse-unsupported: no grammar for %q, keyword fallback used", language))
	default:
		spans = structparse.FallbackExtract(texts, language)

		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"parse-failure: %v, keyword fallback used", err))
	}

	wanted := depthKinds(t.cfg.SummaryDepth)

	out := make([]string, 0, len(spans))

	// Spans arrive sorted by start position; overlapping matches that
	// begin on the same line collapse to one output line.
	lastLine := -1

	for _, span := range spans {
		if !wanted[span.Kind] {
			continue
		}

		if span.StartLine >= len(texts) || span.StartLine == lastLine {
			continue
		}

		out = append(out, texts[span.StartLine])
		lastLine = span.StartLine
	}

	res.Lines = out
}

// depthKinds maps a summary depth to the declaration kinds it includes.
// minimal shows the callable skeleton, standard adds imports, detailed
// adds value declarations.
func depthKinds(depth config.Depth) map[structparse.Kind]bool {
	kinds := map[structparse.Kind]bool{
		structparse.KindType:     true,
		structparse.KindFunction: true,
	}

	if depth == config.DepthStandard || depth == config.DepthDetailed {
		kinds[structparse.KindImport] = true
	}

	if depth == config.DepthDetailed {
		kinds[structparse.KindValue] = true
	}

	return kinds
}
