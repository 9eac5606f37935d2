// Package statefile persists the table state and session figures as JSON so
// external tools can watch a headless table.
package statefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lox/pokertable/internal/stats"
	"github.com/lox/pokertable/internal/table"
)

// State is the document written to disk
type State struct {
	SavedAt time.Time      `json:"saved_at"`
	Table   table.Snapshot `json:"table"`
	Session stats.Summary  `json:"session"`
}

// Save writes the state to path. Readers see either the previous file or the new
// one, never a partial write.
func Save(path string, st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return writeAtomic(path, append(data, '\n'), 0o644)
}

// Load reads a state file written by Save
func Load(path string) (State, error) {
	var st State
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("failed to decode state %s: %w", path, err)
	}
	return st, nil
}

// writeAtomic writes to a temporary file in the same directory and renames it over
// the target, since rename is only atomic within one filesystem
func writeAtomic(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
