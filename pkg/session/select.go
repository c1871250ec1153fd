package session

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gobwas/glob"
)

// logPatterns are the recognized session-log filename shapes. The writer
// produces the .txt form; .log is accepted for externally produced files.
var logPatterns = []glob.Glob{
	glob.MustCompile("session-*.txt"),
	glob.MustCompile("session-*.log"),
}

func isSessionLog(name string) bool {
	for _, p := range logPatterns {
		if p.Match(name) {
			return true
		}
	}
	return false
}

// Previous parses the previous session's transcript within dir. Logs are
// ordered by modification time descending; index 0 is the in-progress
// session the current run is writing and is always excluded, so the file at
// index 1 is parsed. Fewer than two matching files, or any directory or read
// failure, yields an empty result.
func Previous(dir string, maxTurns int) []Turn {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Debug("session: logs directory unreadable", "dir", dir, "err", err)
		return nil
	}

	type logFile struct {
		name    string
		modTime time.Time
	}
	var logs []logFile
	for _, e := range entries {
		if e.IsDir() || !isSessionLog(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			slog.Debug("session: skipping unstattable log", "name", e.Name(), "err", err)
			continue
		}
		logs = append(logs, logFile{name: e.Name(), modTime: info.ModTime()})
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].modTime.After(logs[j].modTime)
	})

	if len(logs) < 2 {
		return nil
	}
	return ParseLog(filepath.Join(dir, logs[1].name), maxTurns)
}
