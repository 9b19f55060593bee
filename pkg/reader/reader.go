// Package reader yields lines from a file or standard input one at a
// time, repairing invalid UTF-8 as it goes. It never materializes the
// whole input and never waits on anything but ordinary synchronous IO.
package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/Sumatoshi-tech/viewfang/pkg/textutil"
)

// StdinSource is the source argument that selects standard input.
const StdinSource = "-"

// readBufferSize is the initial bufio buffer. Lines longer than this
// grow the buffer rather than failing.
const readBufferSize = 64 * 1024

// Replacement is the rune substituted for invalid UTF-8 sequences.
const Replacement = "�"

// Sentinel errors.
var (
	// ErrNotFound indicates the source path does not exist.
	ErrNotFound = errors.New("source not found")

	// ErrBinary indicates the input looks binary (null byte in the
	// sniff window) and raw passthrough was not forced.
	ErrBinary = errors.New("input appears to be binary")
)

// Line is one record of the input stream. Records are created and
// discarded per iteration; callers must not retain Text past the next
// call unless they copy it.
type Line struct {
	// Index is the zero-based position in the source.
	Index int

	// Text is the line content without its trailing newline, with
	// invalid UTF-8 replaced by U+FFFD.
	Text string

	// Bytes is the number of source bytes this line consumed,
	// including the trailing newline when present.
	Bytes int

	// Anomalous is set when the raw line contained invalid UTF-8.
	Anomalous bool
}

// Reader is a line iterator over a single source.
type Reader struct {
	src       io.ReadCloser
	buf       *bufio.Reader
	source    string
	index     int
	byteOff   int64
	anomalies int
	stdin     bool
	eof       bool
}

// Open opens the given path, or standard input when source is "-".
// Binary-looking inputs are refused unless forceRaw is set.
func Open(source string, forceRaw bool) (*Reader, error) {
	var (
		src   io.ReadCloser
		stdin bool
	)

	if source == StdinSource {
		src = io.NopCloser(os.Stdin)
		stdin = true
	} else {
		file, err := os.Open(source)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, source)
			}

			return nil, fmt.Errorf("open %s: %w", source, err)
		}

		src = file
	}

	r := &Reader{
		src:    src,
		buf:    bufio.NewReaderSize(src, readBufferSize),
		source: source,
		stdin:  stdin,
	}

	if !forceRaw {
		sniffErr := r.sniffBinary()
		if sniffErr != nil {
			r.Close()

			return nil, sniffErr
		}
	}

	return r, nil
}

// sniffBinary peeks at the head of the stream without consuming it.
func (r *Reader) sniffBinary() error {
	head, err := r.buf.Peek(textutil.BinarySniffLength)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("sniff %s: %w", r.source, err)
	}

	if textutil.IsBinary(head) {
		return fmt.Errorf("%w: %s", ErrBinary, r.source)
	}

	return nil
}

// Source returns the path this reader was opened with ("-" for stdin).
func (r *Reader) Source() string {
	return r.source
}

// Stdin reports whether the reader consumes standard input.
func (r *Reader) Stdin() bool {
	return r.stdin
}

// ByteOffset returns the number of source bytes consumed so far.
func (r *Reader) ByteOffset() int64 {
	return r.byteOff
}

// LineOffset returns the number of lines consumed so far.
func (r *Reader) LineOffset() int {
	return r.index
}

// Anomalies returns how many lines required UTF-8 repair.
func (r *Reader) Anomalies() int {
	return r.anomalies
}

// Next returns the next line, or io.EOF when the input is exhausted.
// Read failures mid-stream are wrapped with the source and offset.
func (r *Reader) Next() (Line, error) {
	if r.eof {
		return Line{}, io.EOF
	}

	raw, err := r.buf.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Line{}, fmt.Errorf("read %s at line %d: %w", r.source, r.index, err)
	}

	if errors.Is(err, io.EOF) {
		r.eof = true

		// A final line without a trailing newline still counts.
		if raw == "" {
			return Line{}, io.EOF
		}
	}

	consumed := len(raw)
	text := strings.TrimSuffix(raw, "\n")
	text = strings.TrimSuffix(text, "\r")

	anomalous := !utf8.ValidString(text)
	if anomalous {
		text = strings.ToValidUTF8(text, Replacement)
		r.anomalies++
	}

	line := Line{
		Index:     r.index,
		Text:      text,
		Bytes:     consumed,
		Anomalous: anomalous,
	}

	r.index++
	r.byteOff += int64(consumed)

	return line, nil
}

// Skip consumes and discards n lines, returning how many were actually
// skipped. Used to seek a resumed run to its checkpointed offset.
func (r *Reader) Skip(n int) (int, error) {
	skipped := 0

	for skipped < n {
		_, err := r.Next()
		if errors.Is(err, io.EOF) {
			return skipped, nil
		}

		if err != nil {
			return skipped, err
		}

		skipped++
	}

	return skipped, nil
}

// Close releases the underlying handle. Closing a stdin reader is a no-op.
func (r *Reader) Close() error {
	return r.src.Close()
}
