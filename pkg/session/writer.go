package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var timeNow = time.Now // injected for testability

// Writer appends turns to the current run's transcript file. One transcript
// exists per run, named session-<date>-<n>.txt where n is the first free
// per-day sequence number. The written line format is the same one ParseLog
// reads back: "ROLE: content" with continuation lines unprefixed.
type Writer struct {
	path string
	f    *os.File
}

// NewWriter creates the transcript file for this run inside dir.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("session: init logs directory %s: %w", dir, err)
	}
	date := timeNow().Format("2006-01-02")
	for n := 1; ; n++ {
		path := filepath.Join(dir, fmt.Sprintf("session-%s-%d.txt", date, n))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			return &Writer{path: path, f: f}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("session: create transcript %s: %w", path, err)
		}
	}
}

// WriteHeader records session metadata at the top of the transcript. Header
// lines carry no role prefix, so the parser ignores them.
func (w *Writer) WriteHeader(bootDocPath, model string, temperature float64) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Session started at %s ===\n", timeNow().Format(time.RFC3339))
	fmt.Fprintf(&sb, "Boot doc %s\n", bootDocPath)
	fmt.Fprintf(&sb, "Model %s (temp %.2f)\n", model, temperature)
	sb.WriteString(strings.Repeat("-", 50) + "\n\n")
	_, err := w.f.WriteString(sb.String())
	if err != nil {
		return fmt.Errorf("session: write header: %w", err)
	}
	return nil
}

// Append writes one turn to the transcript.
func (w *Writer) Append(role Role, content string) error {
	entry := fmt.Sprintf("%s: %s\n\n", strings.ToUpper(string(role)), strings.TrimSpace(content))
	if _, err := w.f.WriteString(entry); err != nil {
		return fmt.Errorf("session: append turn: %w", err)
	}
	return nil
}

// Path returns the transcript file path for this run.
func (w *Writer) Path() string {
	return w.path
}

// Close flushes and closes the transcript file.
func (w *Writer) Close() error {
	return w.f.Close()
}
