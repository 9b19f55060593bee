package chunk

import (
	"fmt"
)

// State is the chunk manager lifecycle state.
type State int

// Lifecycle states. Fresh at start-up; Streaming while chunks flow;
// Completed on normal end of input; Suspended after an interrupt or IO
// failure, leaving the last good checkpoint intact.
const (
	StateFresh State = iota
	StateStreaming
	StateCompleted
	StateSuspended
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// Manager tracks chunk numbering and checkpoint state for one streaming
// run. The write ordering discipline lives here: a chunk must be durably
// written before Commit advances the checkpoint, so a crash between the
// two re-emits at most one chunk and never skips one.
type Manager struct {
	source         string
	fingerprint    string
	checkpointPath string

	state      State
	nextIndex  int
	lineOffset int
	byteOffset int64
}

// NewManager creates a manager in the Fresh state.
func NewManager(source, fingerprint, checkpointPath string) *Manager {
	return &Manager{
		source:         source,
		fingerprint:    fingerprint,
		checkpointPath: checkpointPath,
		state:          StateFresh,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	return m.state
}

// NextIndex returns the index the next chunk will carry.
func (m *Manager) NextIndex() int {
	return m.nextIndex
}

// Resume loads and validates the checkpoint, then positions chunk
// numbering and source offsets after it. Any validation failure is
// terminal: the caller must abort, not continue fresh.
func (m *Manager) Resume() (*Checkpoint, error) {
	cp, err := LoadCheckpoint(m.checkpointPath, m.fingerprint)
	if err != nil {
		return nil, err
	}

	if cp.Source != m.source {
		return nil, fmt.Errorf("%w: checkpoint source %q, current source %q",
			ErrFingerprintMismatch, cp.Source, m.source)
	}

	m.nextIndex = cp.ChunkIndex + 1
	m.lineOffset = cp.LineOffset
	m.byteOffset = cp.ByteOffset

	return cp, nil
}

// Begin transitions Fresh → Streaming.
func (m *Manager) Begin() {
	m.state = StateStreaming
}

// Build assembles the next chunk document from transformed payload lines
// and the source span they came from.
func (m *Manager) Build(lines []string, startLine, endLine int, startByte, endByte int64) Document {
	doc := Document{
		SchemaVersion: SchemaVersion,
		Index:         m.nextIndex,
		StartLine:     startLine,
		EndLine:       endLine,
		StartByte:     startByte,
		EndByte:       endByte,
		Lines:         lines,
		Checksum:      PayloadChecksum(lines),
	}

	return doc
}

// Commit records that doc was durably written and advances the
// checkpoint past it. Callers must only invoke this after the chunk
// bytes are flushed to their destination. emittedLines and emittedBytes
// are the running cap counters, preserved so a resumed run keeps
// enforcing max_lines/max_bytes across the whole stream.
func (m *Manager) Commit(doc Document, emittedLines int, emittedBytes int64) error {
	m.nextIndex = doc.Index + 1
	m.lineOffset = doc.EndLine
	m.byteOffset = doc.EndByte

	if m.checkpointPath == "" {
		return nil
	}

	cp := &Checkpoint{
		SchemaVersion: SchemaVersion,
		Source:        m.source,
		Fingerprint:   m.fingerprint,
		ChunkIndex:    doc.Index,
		LineOffset:    doc.EndLine,
		ByteOffset:    doc.EndByte,
		EmittedLines:  emittedLines,
		EmittedBytes:  emittedBytes,
	}

	saveErr := saveCheckpoint(m.checkpointPath, cp)
	if saveErr != nil {
		return fmt.Errorf("commit chunk %d: %w", doc.Index, saveErr)
	}

	return nil
}

// Complete transitions to Completed and marks the checkpoint finished.
func (m *Manager) Complete() error {
	m.state = StateCompleted

	if m.checkpointPath == "" {
		return nil
	}

	cp := &Checkpoint{
		SchemaVersion: SchemaVersion,
		Source:        m.source,
		Fingerprint:   m.fingerprint,
		ChunkIndex:    m.nextIndex - 1,
		LineOffset:    m.lineOffset,
		ByteOffset:    m.byteOffset,
		Completed:     true,
	}

	return saveCheckpoint(m.checkpointPath, cp)
}

// Suspend transitions to Suspended. The last committed checkpoint stays
// on disk for a future resume.
func (m *Manager) Suspend() {
	m.state = StateSuspended
}
