// Package commands implements CLI command handlers for viewfang.
package commands

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/viewfang/pkg/budget"
	"github.com/Sumatoshi-tech/viewfang/pkg/chunk"
	"github.com/Sumatoshi-tech/viewfang/pkg/config"
	"github.com/Sumatoshi-tech/viewfang/pkg/emit"
	"github.com/Sumatoshi-tech/viewfang/pkg/highlight"
	"github.com/Sumatoshi-tech/viewfang/pkg/langdetect"
	"github.com/Sumatoshi-tech/viewfang/pkg/reader"
	"github.com/Sumatoshi-tech/viewfang/pkg/view"
)

// langSampleLimit caps the content sample handed to language detection.
const langSampleLimit = 16 * 1024

// viewOptions holds the flag state for one view invocation.
type viewOptions struct {
	profile string

	mode         string
	format       string
	maxLines     int
	maxBytes     int64
	rangeExpr    string
	fitContext   bool
	model        string
	reserve      int
	summaryDepth string
	language     string
	theme        string
	numberStyle  string

	chunkSize  int
	checkpoint string
	output     string
	resume     bool

	pretty         bool
	validateOutput bool
	forceRaw       bool
	colorMode      string
	verbose        bool
	quiet          bool
}

// NewViewCommand creates the view command, the main pipeline entry.
func NewViewCommand() *cobra.Command {
	opts := &viewOptions{}

	cmd := &cobra.Command{
		Use:   "view <path|->",
		Short: "Render a bounded view of a file or stdin",
		Long: `Render a source file (or stdin via "-") as plain text, highlighted
text, a structural summary, or a token list, truncated by line count,
byte count, line range and/or an AI-model context budget.

Examples:
  viewfang view main.go --max-lines 200
  viewfang view big.log --range 1000:2000 --format json
  viewfang view api.py --mode summary --summary-depth standard
  cat report.txt | viewfang view - --fit-context --model claude
  viewfang view huge.csv --format json-stream --chunk-size 500 \
      --checkpoint /tmp/huge.ckpt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args[0])
		},
	}

	opts.register(cmd)

	return cmd
}

// register declares every view flag.
func (o *viewOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringVar(&o.profile, "profile", "", "profile file (default: viewfang.yaml on the search path)")

	flags.StringVarP(&o.mode, "mode", "m", "", "output mode: plain|highlight|summary|tokens")
	flags.StringVarP(&o.format, "format", "f", "", "output format: text|json|json-stream")
	flags.IntVarP(&o.maxLines, "max-lines", "n", 0, "maximum output lines (0 = unlimited)")
	flags.Int64VarP(&o.maxBytes, "max-bytes", "b", 0, "maximum output bytes (0 = unlimited)")
	flags.StringVarP(&o.rangeExpr, "range", "r", "", "1-based line range: N:M, N:, :M or N")
	flags.BoolVar(&o.fitContext, "fit-context", false, "trim output to fit the model's context window")
	flags.StringVar(&o.model, "model", "", "AI model identifier for token estimation")
	flags.IntVar(&o.reserve, "reserve-tokens", 0, "prompt-overhead tokens reserved from the context window")
	flags.StringVar(&o.summaryDepth, "summary-depth", "", "summary detail: minimal|standard|detailed")
	flags.StringVarP(&o.language, "language", "l", "", "force the source language (default: detect)")
	flags.StringVar(&o.theme, "theme", "", "highlighting theme")
	flags.StringVar(&o.numberStyle, "number", "", "line numbering: none|all|nonblank")

	flags.IntVar(&o.chunkSize, "chunk-size", 0, "lines per chunk in json-stream format")
	flags.StringVar(&o.checkpoint, "checkpoint", "", "checkpoint file for resumable streaming")
	flags.StringVarP(&o.output, "output", "o", "", "stream output file (.lz4 compresses; default stdout)")
	flags.BoolVar(&o.resume, "resume", false, "resume a suspended streaming run from its checkpoint")

	flags.BoolVar(&o.pretty, "pretty", false, "indent JSON output")
	flags.BoolVar(&o.validateOutput, "validate-output", false, "validate emitted JSON against its schema")
	flags.BoolVar(&o.forceRaw, "raw", false, "process binary-looking input anyway")
	flags.StringVar(&o.colorMode, "color", "", "color on stderr notices: auto|on|off")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "verbose logging")
	flags.BoolVarP(&o.quiet, "quiet", "q", false, "suppress warnings")
}

// resolve merges defaults, the profile, the environment and explicitly
// set flags into the final immutable configuration.
func (o *viewOptions) resolve(cmd *cobra.Command, source string) (*config.Config, error) {
	cfg, err := config.Load(o.profile)
	if err != nil {
		return nil, err
	}

	cfg.Source = source

	flags := cmd.Flags()

	if flags.Changed("mode") {
		cfg.Mode = config.Mode(o.mode)
	}

	if flags.Changed("format") {
		cfg.Format = config.Format(o.format)
	}

	if flags.Changed("max-lines") {
		cfg.MaxLines = o.maxLines
	}

	if flags.Changed("max-bytes") {
		cfg.MaxBytes = o.maxBytes
	}

	if flags.Changed("range") {
		parsed, parseErr := config.ParseRange(o.rangeExpr)
		if parseErr != nil {
			return nil, parseErr
		}

		cfg.Range = parsed
	}

	if flags.Changed("fit-context") {
		cfg.FitContext = o.fitContext
	}

	if flags.Changed("model") {
		cfg.Model = o.model
	}

	if flags.Changed("reserve-tokens") {
		cfg.ReserveTokens = o.reserve
	}

	if flags.Changed("summary-depth") {
		cfg.SummaryDepth = config.Depth(o.summaryDepth)
	}

	if flags.Changed("language") {
		cfg.Language = langdetect.Normalize(o.language)
	}

	if flags.Changed("theme") {
		cfg.Theme = o.theme
	}

	if flags.Changed("number") {
		cfg.NumberStyle = config.NumberStyle(o.numberStyle)
	}

	if flags.Changed("chunk-size") {
		cfg.Streaming.ChunkSize = o.chunkSize
	}

	if flags.Changed("checkpoint") {
		cfg.Streaming.CheckpointPath = o.checkpoint
	}

	if flags.Changed("output") {
		cfg.Streaming.OutputPath = o.output
	}

	if flags.Changed("resume") {
		cfg.Streaming.Resume = o.resume
	}

	if flags.Changed("pretty") {
		cfg.PrettyJSON = o.pretty
	}

	if flags.Changed("validate-output") {
		cfg.ValidateOutput = o.validateOutput
	}

	if flags.Changed("raw") {
		cfg.ForceRaw = o.forceRaw
	}

	if flags.Changed("color") {
		cfg.Color = config.ColorMode(o.colorMode)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

// run resolves the configuration and drives the pipeline.
func (o *viewOptions) run(cmd *cobra.Command, source string) error {
	cfg, err := o.resolve(cmd, source)
	if err != nil {
		return err
	}

	o.setupLogging(cfg.LogLevel)
	setupColor(cfg.Color)

	src, openErr := reader.Open(cfg.Source, cfg.ForceRaw)
	if openErr != nil {
		return openErr
	}
	defer src.Close()

	if cfg.Format == config.FormatJSONStream {
		return o.runStream(cmd, cfg, src)
	}

	return o.runSingle(cmd, cfg, src)
}

// runSingle is the non-streaming path: budget, transform, emit.
func (o *viewOptions) runSingle(cmd *cobra.Command, cfg *config.Config, src *reader.Reader) error {
	engine := budget.NewEngine(cfg)

	win, err := engine.Apply(src)
	if err != nil {
		return err
	}

	language := detectLanguage(cfg, win)

	transformer := view.NewTransformer(cfg, highlight.New())

	res, transformErr := transformer.Apply(cmd.Context(), win, language)
	if transformErr != nil {
		return transformErr
	}

	o.reportWarnings(res.Warnings)

	emitErr := emit.New(cmd.OutOrStdout(), cfg).Emit(res)
	if errors.Is(emitErr, emit.ErrSchemaValidation) {
		// Bytes are already written; report without failing the run.
		o.reportWarnings([]string{emitErr.Error()})

		return nil
	}

	return emitErr
}

// runStream is the chunked path with checkpoint/resume.
func (o *viewOptions) runStream(cmd *cobra.Command, cfg *config.Config, src *reader.Reader) error {
	fingerprint := cfg.Fingerprint()

	// Streaming detection is filename-only: a resumed run must derive
	// the same language without re-reading consumed content.
	language := cfg.Language
	if language == "" && !src.Stdin() {
		language = langdetect.Detect(cfg.Source, "", nil)
	}

	sink, err := emit.OpenStream(cfg.Streaming.OutputPath, cmd.OutOrStdout(), cfg.Streaming.Resume, cfg.ValidateOutput)
	if err != nil {
		return err
	}
	defer sink.Close()

	transformer := view.NewTransformer(cfg, highlight.New())
	runner := chunk.NewRunner(cfg, fingerprint, language, transformer, sink, slog.Default())

	runErr := runner.Run(cmd.Context(), src)
	if runErr != nil {
		return runErr
	}

	if validationErr := sink.ValidationErr(); validationErr != nil {
		o.reportWarnings([]string{validationErr.Error()})
	}

	return nil
}

// detectLanguage picks the forced language or detects one from the
// filename and the first bytes of the emitted window.
func detectLanguage(cfg *config.Config, win *budget.Window) string {
	if cfg.Language != "" {
		return cfg.Language
	}

	var sample []byte
	for _, line := range win.Lines {
		if len(sample) >= langSampleLimit {
			break
		}

		sample = append(sample, line.Text...)
		sample = append(sample, '\n')
	}

	filename := cfg.Source
	if filename == reader.StdinSource {
		filename = ""
	}

	return langdetect.Detect(filename, "", sample)
}

// setupLogging installs a stderr slog handler at the requested level.
// Flags override the profile's log_level.
func (o *viewOptions) setupLogging(profileLevel string) {
	level := slog.LevelWarn

	switch strings.ToLower(profileLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning", "":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if o.verbose {
		level = slog.LevelDebug
	}

	if o.quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// setupColor applies the color mode to human-facing stderr notices.
// Auto disables color when stderr is not a terminal, so piped streams
// never see ANSI escapes they did not ask for.
func setupColor(mode config.ColorMode) {
	switch mode {
	case config.ColorOn:
		color.NoColor = false
	case config.ColorOff:
		color.NoColor = true
	case config.ColorAuto:
		color.NoColor = !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
}

// reportWarnings prints non-fatal warnings to stderr unless quieted.
func (o *viewOptions) reportWarnings(warnings []string) {
	if o.quiet {
		return
	}

	for _, warning := range warnings {
		color.New(color.FgYellow).Fprintf(os.Stderr, "warning: %s\n", warning)
	}
}
