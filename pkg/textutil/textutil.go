// Package textutil provides byte-level text utilities: binary detection,
// line counting, word-boundary splitting, and line-boundary truncation.
package textutil

import (
	"bytes"
	"strings"
	"unicode"
)

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection. Matches the heuristic used by Git and most editors.
const BinarySniffLength = 8000

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// CountLines returns the number of newline-delimited lines in data.
// A non-empty buffer without a trailing newline counts the last partial line.
// Returns 0 for empty data.
func CountLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	lines := bytes.Count(data, []byte{'\n'})

	if data[len(data)-1] != '\n' {
		lines++
	}

	return lines
}

// SplitWords splits text on unicode boundary runes (anything that is not a
// letter, digit or underscore) and returns the non-empty fields in order.
func SplitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// TruncateAtLineBoundary trims text to at most maxBytes, preferring a cut
// at the last newline within lookback bytes of the limit so a line is
// never split mid-way unless the lookback window contains none.
func TruncateAtLineBoundary(text string, maxBytes, lookback int) string {
	if maxBytes <= 0 || len(text) <= maxBytes {
		return text
	}

	trimmed := text[:maxBytes]

	threshold := maxBytes - lookback
	if threshold < 0 {
		threshold = 0
	}

	if idx := strings.LastIndex(trimmed, "\n"); idx >= threshold {
		trimmed = trimmed[:idx]
	}

	return trimmed
}
