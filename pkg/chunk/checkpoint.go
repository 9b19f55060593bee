package chunk

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/Sumatoshi-tech/viewfang/pkg/persist"
)

// Checkpoint binds a source offset to the configuration fingerprint that
// produced the chunks before it. It is only honored for resume when the
// fingerprints match exactly.
type Checkpoint struct {
	SchemaVersion int    `json:"schema_version"`
	Source        string `json:"source"`
	Fingerprint   string `json:"fingerprint"`

	// ChunkIndex is the last chunk durably emitted.
	ChunkIndex int `json:"chunk_index"`

	// LineOffset and ByteOffset locate the next unread source
	// position.
	LineOffset int   `json:"line_offset"`
	ByteOffset int64 `json:"byte_offset"`

	// EmittedLines and EmittedBytes are the running budget-cap
	// counters at the checkpoint, so caps span resume boundaries.
	EmittedLines int   `json:"emitted_lines"`
	EmittedBytes int64 `json:"emitted_bytes"`

	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
}

// Sentinel errors for checkpoint validation.
var (
	// ErrNoCheckpoint indicates the checkpoint file does not exist.
	ErrNoCheckpoint = errors.New("no checkpoint found")

	// ErrSchemaVersion indicates the checkpoint was written by an
	// incompatible format version.
	ErrSchemaVersion = errors.New("incompatible checkpoint schema version")

	// ErrFingerprintMismatch indicates the resuming configuration
	// would shape output differently than the one that produced the
	// existing chunks. Resume must abort, never silently continue.
	ErrFingerprintMismatch = errors.New("configuration fingerprint mismatch")

	// ErrAlreadyCompleted indicates the checkpointed run finished;
	// there is nothing to resume.
	ErrAlreadyCompleted = errors.New("checkpointed run already completed")

	// ErrStdinResume indicates a resume against standard input, whose
	// consumed bytes cannot be sought again.
	ErrStdinResume = errors.New("cannot resume from stdin")
)

// LoadCheckpoint reads and validates the checkpoint at path against the
// fingerprint of the configuration requesting the resume.
func LoadCheckpoint(path, fingerprint string) (*Checkpoint, error) {
	var cp Checkpoint

	loadErr := persist.LoadJSON(path, &cp)
	if loadErr != nil {
		if errors.Is(loadErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoCheckpoint, path)
		}

		return nil, loadErr
	}

	if cp.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: checkpoint has %d, this build writes %d",
			ErrSchemaVersion, cp.SchemaVersion, SchemaVersion)
	}

	if cp.Fingerprint != fingerprint {
		return nil, fmt.Errorf("%w: checkpoint has %s, current configuration is %s",
			ErrFingerprintMismatch, cp.Fingerprint, fingerprint)
	}

	if cp.Completed {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyCompleted, path)
	}

	return &cp, nil
}

// saveCheckpoint persists the checkpoint atomically.
func saveCheckpoint(path string, cp *Checkpoint) error {
	cp.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	return persist.SaveJSON(path, cp)
}
