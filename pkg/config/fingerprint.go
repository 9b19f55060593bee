package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// FingerprintLength is the hex length of a configuration fingerprint
// (first 8 bytes of the SHA-256 digest).
const FingerprintLength = 16

// shapeFields is the canonical encoding of every configuration field
// that affects output shape. Cosmetic fields (color, log level, pretty
// indentation) are deliberately absent: two runs that differ only in
// those must produce byte-identical chunk sequences.
type shapeFields struct {
	Source        string      `json:"source"`
	Mode          Mode        `json:"mode"`
	Format        Format      `json:"format"`
	MaxLines      int         `json:"max_lines"`
	MaxBytes      int64       `json:"max_bytes"`
	RangeStart    int         `json:"range_start"`
	RangeEnd      int         `json:"range_end"`
	FitContext    bool        `json:"fit_context"`
	Model         string      `json:"model"`
	ReserveTokens int         `json:"reserve_tokens"`
	SummaryDepth  Depth       `json:"summary_depth"`
	Language      string      `json:"language"`
	Theme         string      `json:"theme"`
	NumberStyle   NumberStyle `json:"number_style"`
	ChunkSize     int         `json:"chunk_size"`
}

// Fingerprint derives a deterministic digest of the output-shape-affecting
// configuration fields. Equal fingerprints guarantee byte-identical chunk
// sequences for the same input prefix.
func (c *Config) Fingerprint() string {
	shape := shapeFields{
		Source:        c.Source,
		Mode:          c.Mode,
		Format:        c.Format,
		MaxLines:      c.MaxLines,
		MaxBytes:      c.MaxBytes,
		RangeStart:    c.Range.Start,
		RangeEnd:      c.Range.End,
		FitContext:    c.FitContext,
		Model:         c.Model,
		ReserveTokens: c.ReserveTokens,
		SummaryDepth:  c.SummaryDepth,
		Language:      c.Language,
		Theme:         c.Theme,
		NumberStyle:   c.NumberStyle,
		ChunkSize:     c.Streaming.ChunkSize,
	}

	// Struct field order is fixed, so the JSON encoding is canonical.
	data, err := json.Marshal(shape)
	if err != nil {
		// Marshal of a flat value struct cannot fail.
		panic(err)
	}

	digest := sha256.Sum256(data)

	return hex.EncodeToString(digest[:FingerprintLength/2])
}
