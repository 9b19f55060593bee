package view

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/viewfang/pkg/budget"
	"github.com/Sumatoshi-tech/viewfang/pkg/reader"
	"github.com/Sumatoshi-tech/viewfang/pkg/textutil"
)

// Tokenization switches from exhaustive splitting to evenly spaced
// sampling above this window size, bounding latency on very large
// inputs. Sampling is an explicit approximation flagged on the result,
// never silent data loss.
const (
	tokenSampleThreshold = 1 << 20 // 1 MiB of window content.
	sampleWindowCount    = 16
	sampleWindowLines    = 64
)

// tokenize produces the flat token list for the window.
func (t *Transformer) tokenize(win *budget.Window, res *Result) {
	if win.EmittedBytes <= tokenSampleThreshold {
		tokens := make([]string, 0, len(win.Lines))
		for _, line := range win.Lines {
			tokens = append(tokens, textutil.SplitWords(line.Text)...)
		}

		res.Tokens = tokens

		return
	}

	res.TokenSampling = true
	res.Warnings = append(res.Warnings, fmt.Sprintf(
		"token-sampling: window exceeds %s, tokens drawn from %d evenly spaced windows of %d lines",
		humanize.IBytes(tokenSampleThreshold), sampleWindowCount, sampleWindowLines))

	res.Tokens = sampleTokens(win.Lines)
}

// sampleTokens tokenizes sampleWindowCount evenly spaced line windows.
// Window starts are a pure function of the line count, so sampling is
// deterministic for identical input.
func sampleTokens(lines []reader.Line) []string {
	var tokens []string

	stride := len(lines) / sampleWindowCount
	if stride < sampleWindowLines {
		stride = sampleWindowLines
	}

	for start := 0; start < len(lines); start += stride {
		end := start + sampleWindowLines
		if end > len(lines) {
			end = len(lines)
		}

		for _, line := range lines[start:end] {
			tokens = append(tokens, textutil.SplitWords(line.Text)...)
		}
	}

	return tokens
}
