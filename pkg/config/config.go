// Package config resolves viewer configuration from defaults, profile
// files, environment variables and CLI overrides into one immutable value.
package config

import (
	"errors"
	"fmt"
)

// Mode selects the content view produced by the pipeline.
type Mode string

// Output mode constants.
const (
	ModePlain     Mode = "plain"
	ModeHighlight Mode = "highlight"
	ModeSummary   Mode = "summary"
	ModeTokens    Mode = "tokens"
)

// Format selects the serialization of the final result.
type Format string

// Output format constants.
const (
	FormatText       Format = "text"
	FormatJSON       Format = "json"
	FormatJSONStream Format = "json-stream"
)

// Depth controls how much structural detail summary extraction returns.
type Depth string

// Summary depth constants.
const (
	DepthNone     Depth = "none"
	DepthMinimal  Depth = "minimal"
	DepthStandard Depth = "standard"
	DepthDetailed Depth = "detailed"
)

// NumberStyle controls line numbering in plain output.
type NumberStyle string

// Line numbering constants.
const (
	NumberNone     NumberStyle = "none"
	NumberAll      NumberStyle = "all"
	NumberNonBlank NumberStyle = "nonblank"
)

// ColorMode controls ANSI color on human-facing output. Cosmetic: it is
// excluded from the configuration fingerprint.
type ColorMode string

// Color mode constants.
const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

// LineRange is a 1-based inclusive line window. A zero bound is open:
// {0, 0} is the full input, {40, 0} is from line 40 onward, {0, 80} is
// up to line 80, {7, 7} is exactly line 7.
type LineRange struct {
	Start int `mapstructure:"start" json:"start"`
	End   int `mapstructure:"end"   json:"end"`
}

// IsFull reports whether the range covers the whole input.
func (r LineRange) IsFull() bool {
	return r.Start == 0 && r.End == 0
}

// Contains reports whether the 1-based line number falls inside the range.
func (r LineRange) Contains(line int) bool {
	if r.Start > 0 && line < r.Start {
		return false
	}

	if r.End > 0 && line > r.End {
		return false
	}

	return true
}

// PastEnd reports whether the 1-based line number is beyond the range,
// meaning no later line can match either.
func (r LineRange) PastEnd(line int) bool {
	return r.End > 0 && line > r.End
}

// StreamingConfig holds chunked-output settings.
type StreamingConfig struct {
	ChunkSize      int    `mapstructure:"chunk_size"      json:"chunk_size"`
	CheckpointPath string `mapstructure:"checkpoint_path" json:"checkpoint_path"`
	OutputPath     string `mapstructure:"output_path"     json:"output_path"`
	Resume         bool   `mapstructure:"resume"          json:"resume"`
}

// Config is the resolved viewer configuration. It is immutable after
// Validate succeeds; every pipeline component receives it by reference.
type Config struct {
	Source string `mapstructure:"source" json:"source"`

	Mode   Mode   `mapstructure:"mode"   json:"mode"`
	Format Format `mapstructure:"format" json:"format"`

	MaxLines int       `mapstructure:"max_lines" json:"max_lines"`
	MaxBytes int64     `mapstructure:"max_bytes" json:"max_bytes"`
	Range    LineRange `mapstructure:"range"     json:"range"`

	FitContext    bool   `mapstructure:"fit_context"    json:"fit_context"`
	Model         string `mapstructure:"model"          json:"model"`
	ReserveTokens int    `mapstructure:"reserve_tokens" json:"reserve_tokens"`

	SummaryDepth Depth       `mapstructure:"summary_depth" json:"summary_depth"`
	Language     string      `mapstructure:"language"      json:"language"`
	Theme        string      `mapstructure:"theme"         json:"theme"`
	NumberStyle  NumberStyle `mapstructure:"number_style"  json:"number_style"`

	Streaming StreamingConfig `mapstructure:"streaming" json:"streaming"`

	PrettyJSON     bool `mapstructure:"pretty"          json:"pretty"`
	ValidateOutput bool `mapstructure:"validate_output" json:"validate_output"`
	ForceRaw       bool `mapstructure:"force_raw"       json:"force_raw"`

	// Cosmetic fields, excluded from the fingerprint.
	Color    ColorMode `mapstructure:"color"     json:"color"`
	LogLevel string    `mapstructure:"log_level" json:"log_level"`
}

// Sentinel validation errors.
var (
	ErrNoSource             = errors.New("no source given")
	ErrUnknownMode          = errors.New("unknown output mode")
	ErrUnknownFormat        = errors.New("unknown output format")
	ErrUnknownDepth         = errors.New("unknown summary depth")
	ErrUnknownNumberStyle   = errors.New("unknown numbering style")
	ErrUnknownColorMode     = errors.New("unknown color mode")
	ErrNegativeLimit        = errors.New("limit must not be negative")
	ErrRangeOrder           = errors.New("range start exceeds range end")
	ErrNegativeRange        = errors.New("range bounds must not be negative")
	ErrChunkSize            = errors.New("chunk size must be positive in streaming format")
	ErrResumeNeedCheckpoint = errors.New("resume requires a checkpoint path")
	ErrResumeNeedStream     = errors.New("resume requires the json-stream format")
	ErrFitContextNeedModel  = errors.New("fit-context requires a model identifier")
	ErrFitContextStream     = errors.New("fit-context cannot combine with json-stream: tail trimming needs the whole window")
	ErrReserveNegative      = errors.New("reserved prompt tokens must not be negative")
)

// Validate rejects inconsistent configurations before any processing
// begins. Errors carry the offending value for scripted consumers.
func (c *Config) Validate() error {
	if c.Source == "" {
		return ErrNoSource
	}

	if err := c.validateEnums(); err != nil {
		return err
	}

	if err := c.validateLimits(); err != nil {
		return err
	}

	return c.validateStreaming()
}

func (c *Config) validateEnums() error {
	switch c.Mode {
	case ModePlain, ModeHighlight, ModeSummary, ModeTokens:
	default:
		return fmt.Errorf("%w: %q (want plain|highlight|summary|tokens)", ErrUnknownMode, c.Mode)
	}

	switch c.Format {
	case FormatText, FormatJSON, FormatJSONStream:
	default:
		return fmt.Errorf("%w: %q (want text|json|json-stream)", ErrUnknownFormat, c.Format)
	}

	switch c.SummaryDepth {
	case DepthNone, DepthMinimal, DepthStandard, DepthDetailed:
	default:
		return fmt.Errorf("%w: %q (want none|minimal|standard|detailed)", ErrUnknownDepth, c.SummaryDepth)
	}

	switch c.NumberStyle {
	case NumberNone, NumberAll, NumberNonBlank:
	default:
		return fmt.Errorf("%w: %q (want none|all|nonblank)", ErrUnknownNumberStyle, c.NumberStyle)
	}

	switch c.Color {
	case ColorAuto, ColorOn, ColorOff:
	default:
		return fmt.Errorf("%w: %q (want auto|on|off)", ErrUnknownColorMode, c.Color)
	}

	return nil
}

func (c *Config) validateLimits() error {
	if c.MaxLines < 0 {
		return fmt.Errorf("%w: max_lines=%d", ErrNegativeLimit, c.MaxLines)
	}

	if c.MaxBytes < 0 {
		return fmt.Errorf("%w: max_bytes=%d", ErrNegativeLimit, c.MaxBytes)
	}

	if c.Range.Start < 0 || c.Range.End < 0 {
		return fmt.Errorf("%w: [%d,%d]", ErrNegativeRange, c.Range.Start, c.Range.End)
	}

	if c.Range.Start > 0 && c.Range.End > 0 && c.Range.Start > c.Range.End {
		return fmt.Errorf("%w: [%d,%d]", ErrRangeOrder, c.Range.Start, c.Range.End)
	}

	if c.FitContext && c.Model == "" {
		return ErrFitContextNeedModel
	}

	if c.ReserveTokens < 0 {
		return fmt.Errorf("%w: reserve_tokens=%d", ErrReserveNegative, c.ReserveTokens)
	}

	return nil
}

func (c *Config) validateStreaming() error {
	if c.Format == FormatJSONStream && c.Streaming.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size=%d", ErrChunkSize, c.Streaming.ChunkSize)
	}

	if c.Format == FormatJSONStream && c.FitContext {
		return ErrFitContextStream
	}

	if c.Streaming.Resume {
		if c.Streaming.CheckpointPath == "" {
			return ErrResumeNeedCheckpoint
		}

		if c.Format != FormatJSONStream {
			return fmt.Errorf("%w: format=%q", ErrResumeNeedStream, c.Format)
		}
	}

	return nil
}
