// Package persist writes small JSON state files atomically. A state file
// is either the previous complete version or the new complete version,
// never a torn write. Checkpoint durability depends on this property.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File permissions for state files and their parent directories.
const (
	filePerm = 0o600
	dirPerm  = 0o750
)

// SaveJSON marshals state and writes it to path via a temp file and
// rename in the same directory. Parent directories are created.
func SaveJSON(path string, state any) error {
	dir := filepath.Dir(path)

	mkErr := os.MkdirAll(dir, dirPerm)
	if mkErr != nil {
		return fmt.Errorf("create state dir: %w", mkErr)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	if writeErr == nil {
		writeErr = tmp.Sync()
	}

	closeErr := tmp.Close()

	if writeErr != nil || closeErr != nil {
		os.Remove(tmpName)

		if writeErr != nil {
			return fmt.Errorf("write temp state file: %w", writeErr)
		}

		return fmt.Errorf("close temp state file: %w", closeErr)
	}

	chmodErr := os.Chmod(tmpName, filePerm)
	if chmodErr != nil {
		os.Remove(tmpName)

		return fmt.Errorf("chmod temp state file: %w", chmodErr)
	}

	renameErr := os.Rename(tmpName, path)
	if renameErr != nil {
		os.Remove(tmpName)

		return fmt.Errorf("rename state file: %w", renameErr)
	}

	return nil
}

// LoadJSON reads the state file at path into state.
func LoadJSON(path string, state any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read state file: %w", err)
	}

	unmarshalErr := json.Unmarshal(data, state)
	if unmarshalErr != nil {
		return fmt.Errorf("unmarshal state file: %w", unmarshalErr)
	}

	return nil
}
