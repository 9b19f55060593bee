package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"

	"github.com/Sumatoshi-tech/viewfang/pkg/chunk"
)

// lz4Extension selects lz4-framed output files.
const lz4Extension = ".lz4"

// streamFilePerm is the mode for stream output files.
const streamFilePerm = 0o600

// Stream writes a sequence of schema-tagged chunk documents, one JSON
// document per line, each independently parseable. WriteChunk returns
// only after the document is flushed (and fsynced for file targets), so
// the chunk manager can safely commit its checkpoint afterwards.
type Stream struct {
	w        io.Writer
	lzWriter *lz4.Writer
	file     *os.File
	validate bool

	// firstInvalid holds the first schema validation failure. It never
	// interrupts the stream; already-written bytes stand.
	firstInvalid error
}

// OpenStream prepares a stream sink. An empty path targets stdout; a
// path ending in .lz4 writes an lz4 frame. When resuming, the file is
// opened for append so prior chunks are preserved.
func OpenStream(path string, stdout io.Writer, resume, validate bool) (*Stream, error) {
	if path == "" {
		return &Stream{w: stdout, validate: validate}, nil
	}

	flags := os.O_WRONLY | os.O_CREATE
	if resume {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, streamFilePerm)
	if err != nil {
		return nil, fmt.Errorf("open stream output: %w", err)
	}

	s := &Stream{file: file, w: file, validate: validate}

	if strings.HasSuffix(path, lz4Extension) {
		s.lzWriter = lz4.NewWriter(file)
		s.w = s.lzWriter
	}

	return s, nil
}

// WriteChunk serializes one chunk document and makes it durable.
func (s *Stream) WriteChunk(doc chunk.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal chunk %d: %w", doc.Index, err)
	}

	writeErr := s.writeDurable(data)
	if writeErr != nil {
		return writeErr
	}

	if s.validate && s.firstInvalid == nil {
		s.firstInvalid = validateAgainst(SchemaChunk, data)
	}

	return nil
}

// WriteTail serializes the terminal stream document.
func (s *Stream) WriteTail(tail chunk.Tail) error {
	data, err := json.Marshal(tail)
	if err != nil {
		return fmt.Errorf("marshal tail: %w", err)
	}

	writeErr := s.writeDurable(data)
	if writeErr != nil {
		return writeErr
	}

	if s.validate && s.firstInvalid == nil {
		s.firstInvalid = validateAgainst(SchemaTail, data)
	}

	return nil
}

// writeDurable writes one document line and flushes it through every
// layer it owns.
func (s *Stream) writeDurable(data []byte) error {
	_, err := s.w.Write(append(data, '\n'))
	if err != nil {
		return fmt.Errorf("write stream: %w", err)
	}

	if s.lzWriter != nil {
		flushErr := s.lzWriter.Flush()
		if flushErr != nil {
			return fmt.Errorf("flush lz4 frame: %w", flushErr)
		}
	}

	if s.file != nil {
		syncErr := s.file.Sync()
		if syncErr != nil {
			return fmt.Errorf("sync stream file: %w", syncErr)
		}
	}

	return nil
}

// ValidationErr returns the first schema validation failure observed, or
// nil. Reported after the stream ends; it never blocked emission.
func (s *Stream) ValidationErr() error {
	return s.firstInvalid
}

// Close finalizes the lz4 frame (if any) and releases the file handle.
func (s *Stream) Close() error {
	if s.lzWriter != nil {
		closeErr := s.lzWriter.Close()
		if closeErr != nil {
			return fmt.Errorf("close lz4 frame: %w", closeErr)
		}
	}

	if s.file != nil {
		return s.file.Close()
	}

	return nil
}
