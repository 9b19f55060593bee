package chunk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Sumatoshi-tech/viewfang/pkg/budget"
	"github.com/Sumatoshi-tech/viewfang/pkg/config"
	"github.com/Sumatoshi-tech/viewfang/pkg/reader"
	"github.com/Sumatoshi-tech/viewfang/pkg/view"
)

// Sink receives serialized stream documents. WriteChunk must not return
// until the chunk is durably written; the checkpoint ordering guarantee
// depends on it.
type Sink interface {
	WriteChunk(Document) error
	WriteTail(Tail) error
}

// Runner drives a streaming run: it batches in-range source lines into
// chunks, transforms each batch, and enforces the write-chunk-then-
// write-checkpoint ordering.
type Runner struct {
	cfg         *config.Config
	fingerprint string
	language    string
	mgr         *Manager
	transformer *view.Transformer
	sink        Sink
	log         *slog.Logger

	emittedLines int
	emittedBytes int64
	verdictLines bool
	verdictBytes bool
	chunks       int
	sourceLines  int
	sourceBytes  int64
	warnings     []string
}

// NewRunner wires a runner for one streaming invocation. language must
// be derived deterministically (forced, or filename-only detection) so
// resumed runs keep producing identical chunks.
func NewRunner(cfg *config.Config, fingerprint, language string, transformer *view.Transformer, sink Sink, log *slog.Logger) *Runner {
	return &Runner{
		cfg:         cfg,
		fingerprint: fingerprint,
		language:    language,
		mgr:         NewManager(cfg.Source, fingerprint, cfg.Streaming.CheckpointPath),
		transformer: transformer,
		sink:        sink,
		log:         log,
	}
}

// Manager exposes the lifecycle state for callers and tests.
func (r *Runner) Manager() *Manager {
	return r.mgr
}

// Run processes the source to completion or suspension. Fatal resume
// errors surface before any output is produced.
func (r *Runner) Run(ctx context.Context, src *reader.Reader) error {
	if r.cfg.Streaming.Resume {
		resumeErr := r.resume(src)
		if resumeErr != nil {
			return resumeErr
		}
	}

	r.mgr.Begin()

	streamErr := r.stream(ctx, src)
	if streamErr != nil {
		r.mgr.Suspend()

		return streamErr
	}

	completeErr := r.mgr.Complete()
	if completeErr != nil {
		return completeErr
	}

	return r.writeTail()
}

// resume validates the checkpoint and seeks the reader past the content
// prior chunks already covered.
func (r *Runner) resume(src *reader.Reader) error {
	if src.Stdin() {
		return ErrStdinResume
	}

	cp, err := r.mgr.Resume()
	if err != nil {
		return err
	}

	skipped, skipErr := src.Skip(cp.LineOffset)
	if skipErr != nil {
		return skipErr
	}

	if skipped < cp.LineOffset {
		return fmt.Errorf("%w: source has shrunk below checkpointed offset %d",
			ErrFingerprintMismatch, cp.LineOffset)
	}

	r.emittedLines = cp.EmittedLines
	r.emittedBytes = cp.EmittedBytes
	r.sourceLines = cp.LineOffset
	r.sourceBytes = cp.ByteOffset

	r.log.Info("resuming stream",
		"chunk_index", cp.ChunkIndex,
		"line_offset", cp.LineOffset,
		"fingerprint", cp.Fingerprint)

	return nil
}

// stream emits chunks until the input or a budget cap is exhausted.
func (r *Runner) stream(ctx context.Context, src *reader.Reader) error {
	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		batch, startByte, done, err := r.nextBatch(src)
		if err != nil {
			return err
		}

		if len(batch) > 0 {
			emitErr := r.emit(ctx, batch, startByte)
			if emitErr != nil {
				return emitErr
			}
		}

		if done {
			return nil
		}
	}
}

// nextBatch collects up to chunk_size in-range lines, honoring the line
// and byte caps. startByte is the source offset of the first batch line;
// done is true when no further content can be emitted. In-range lines
// are contiguous because the range is a single window, so the batch maps
// to one source span.
func (r *Runner) nextBatch(src *reader.Reader) ([]reader.Line, int64, bool, error) {
	var (
		batch     []reader.Line
		startByte int64
	)

	for len(batch) < r.cfg.Streaming.ChunkSize {
		line, err := src.Next()
		if errors.Is(err, io.EOF) {
			return batch, startByte, true, nil
		}

		if err != nil {
			return batch, startByte, false, err
		}

		r.sourceLines++
		r.sourceBytes += int64(line.Bytes)

		number := line.Index + 1
		if !r.cfg.Range.Contains(number) {
			if r.cfg.Range.PastEnd(number) {
				return batch, startByte, true, nil
			}

			continue
		}

		if r.capped() {
			// This in-range line proves the cap cut content.
			r.confirmCaps()

			return batch, startByte, true, nil
		}

		if len(batch) == 0 {
			startByte = r.sourceBytes - int64(line.Bytes)
		}

		batch = append(batch, line)
		r.emittedLines++
		r.emittedBytes += int64(line.Bytes)

		if r.capped() {
			return batch, startByte, false, nil
		}
	}

	return batch, startByte, false, nil
}

// capped reports whether either running cap is exhausted.
func (r *Runner) capped() bool {
	if r.cfg.MaxLines > 0 && r.emittedLines >= r.cfg.MaxLines {
		return true
	}

	if r.cfg.MaxBytes > 0 && r.emittedBytes >= r.cfg.MaxBytes {
		return true
	}

	return false
}

// confirmCaps sets the verdict flags for every cap that is exhausted.
// Called only once further in-range content is known to exist.
func (r *Runner) confirmCaps() {
	if r.cfg.MaxLines > 0 && r.emittedLines >= r.cfg.MaxLines {
		r.verdictLines = true
	}

	if r.cfg.MaxBytes > 0 && r.emittedBytes >= r.cfg.MaxBytes {
		r.verdictBytes = true
	}
}

// emit transforms one batch, writes the chunk, and only then commits the
// checkpoint.
func (r *Runner) emit(ctx context.Context, batch []reader.Line, startByte int64) error {
	payload, err := r.transformBatch(ctx, batch)
	if err != nil {
		return err
	}

	first := batch[0]
	last := batch[len(batch)-1]
	endByte := startByte + batchBytes(batch)

	doc := r.mgr.Build(payload, first.Index, last.Index+1, startByte, endByte)

	writeErr := r.sink.WriteChunk(doc)
	if writeErr != nil {
		return fmt.Errorf("write chunk %d: %w", doc.Index, writeErr)
	}

	commitErr := r.mgr.Commit(doc, r.emittedLines, r.emittedBytes)
	if commitErr != nil {
		return commitErr
	}

	r.chunks++

	r.log.Debug("chunk committed", "index", doc.Index, "lines", len(doc.Lines))

	return nil
}

// transformBatch runs the configured view over the batch window.
// Repaired lines in the batch surface as encoding-anomaly warnings on
// the tail.
func (r *Runner) transformBatch(ctx context.Context, batch []reader.Line) ([]string, error) {
	anomalous := 0
	for _, line := range batch {
		if line.Anomalous {
			anomalous++
		}
	}

	win := &budget.Window{
		Lines:          batch,
		SourceLines:    r.sourceLines,
		SourceBytes:    r.sourceBytes,
		AnomalousLines: anomalous,
		EmittedBytes:   batchBytes(batch),
	}

	res, err := r.transformer.Apply(ctx, win, r.language)
	if err != nil {
		return nil, err
	}

	r.warnings = append(r.warnings, res.Warnings...)

	if r.cfg.Mode == config.ModeTokens {
		return res.Tokens, nil
	}

	return res.Lines, nil
}

// writeTail emits the terminal stream document.
func (r *Runner) writeTail() error {
	tail := Tail{
		SchemaVersion:    SchemaVersion,
		Chunks:           r.chunks,
		SourceLines:      r.sourceLines,
		SourceBytes:      r.sourceBytes,
		Completed:        r.mgr.State() == StateCompleted,
		Fingerprint:      r.fingerprint,
		TruncatedByLines: r.verdictLines,
		TruncatedByBytes: r.verdictBytes,
		Warnings:         r.warnings,
	}

	return r.sink.WriteTail(tail)
}

// batchBytes sums the source bytes consumed by the batch lines.
func batchBytes(batch []reader.Line) int64 {
	var total int64
	for _, line := range batch {
		total += int64(line.Bytes)
	}

	return total
}
