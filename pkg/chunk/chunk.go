// Package chunk slices streamed output into checksummed, individually
// verifiable documents and persists resumable checkpoint state.
package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// SchemaVersion tags chunk documents and checkpoint files. A version
// bump invalidates resume before fingerprints are even compared.
const SchemaVersion = 1

// Document is one streamed chunk: append-only, independently parseable,
// and verifiable through its checksum alone.
type Document struct {
	SchemaVersion int `json:"schema_version"`

	// Index increases monotonically across the stream, surviving
	// resume.
	Index int `json:"index"`

	// Source position of the payload, zero-based line indexes and
	// byte offsets. EndLine and EndByte are exclusive.
	StartLine int   `json:"start_line"`
	EndLine   int   `json:"end_line"`
	StartByte int64 `json:"start_byte"`
	EndByte   int64 `json:"end_byte"`

	Lines []string `json:"lines"`

	// Checksum is the SHA-256 of the serialized payload lines.
	Checksum string `json:"checksum"`
}

// PayloadChecksum computes the content hash over the canonical JSON
// serialization of the payload lines.
func PayloadChecksum(lines []string) string {
	if lines == nil {
		lines = []string{}
	}

	// Marshal of a string slice cannot fail.
	data, _ := json.Marshal(lines)

	digest := sha256.Sum256(data)

	return hex.EncodeToString(digest[:])
}

// Verify recomputes the payload checksum and compares it to the one the
// document carries.
func (d *Document) Verify() bool {
	return d.Checksum == PayloadChecksum(d.Lines)
}

// Tail is the final document of a stream. It carries the truncation
// verdict and full-source totals so consumers never need to buffer the
// chunk sequence to learn them.
type Tail struct {
	SchemaVersion int    `json:"schema_version"`
	Chunks        int    `json:"chunks"`
	SourceLines   int    `json:"source_lines"`
	SourceBytes   int64  `json:"source_bytes"`
	Completed     bool   `json:"completed"`
	Fingerprint   string `json:"fingerprint"`

	TruncatedByLines bool `json:"truncated_by_lines"`
	TruncatedByBytes bool `json:"truncated_by_bytes"`

	Warnings []string `json:"warnings,omitempty"`
}
