package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// memoryFileName is the fixed canonical filename inside the memory directory.
const memoryFileName = "long_term.json"

var timeNow = time.Now // injected for testability

// FileStore persists the canonical memory record as a single UTF-8 JSON file.
// Writes go through a temporary file in the same directory followed by an
// atomic rename, so no reader ever observes a truncated record and a crash
// mid-save leaves the prior file intact. The store assumes a single writer
// process per memory directory.
type FileStore struct {
	dir  string
	path string
}

// NewFileStore creates the memory directory if needed and returns a store
// bound to its canonical record file.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("memory: init directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, path: filepath.Join(dir, memoryFileName)}, nil
}

// Load returns the stored record, or nil when no valid record exists. A
// missing file, unreadable file, malformed JSON, and a schema violation are
// indistinguishable to the caller: all yield absence, never an error.
func (s *FileStore) Load() *Record {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Debug("memory: record unreadable", "path", s.path, "err", err)
		}
		return nil
	}
	var shape map[string]any
	if err := json.Unmarshal(b, &shape); err != nil {
		slog.Debug("memory: record malformed", "path", s.path, "err", err)
		return nil
	}
	if v := ValidateRecord(shape); v != nil {
		slog.Debug("memory: record rejected", "path", s.path, "err", v)
		return nil
	}
	return fromShape(shape)
}

// Save stamps the record's last_updated field with the current wall-clock
// time (any caller-supplied value is overwritten) and atomically replaces the
// canonical file. On failure the prior canonical file is left untouched.
func (s *FileStore) Save(r *Record) error {
	r.LastUpdated = timeNow().Format(time.RFC3339)

	// Nil slices would serialize as null and fail validation on the next
	// load; the schema requires lists.
	if r.Preferences == nil {
		r.Preferences = []string{}
	}
	if r.WorkInProgress == nil {
		r.WorkInProgress = []string{}
	}
	if r.OpenLoops == nil {
		r.OpenLoops = []string{}
	}

	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("memory: serialize record: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("memory: init directory %s: %w", s.dir, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("memory: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("memory: atomic rename %s: %w", s.path, err)
	}
	return nil
}

// Path returns the canonical record file path.
func (s *FileStore) Path() string {
	return s.path
}
