package session

import (
	"bufio"
	"log/slog"
	"os"
	"strings"
)

// ParseLog reads a line-oriented transcript and returns its turns in file
// order, truncated to the trailing maxTurns*2 entries (a turn pair per
// exchange). A maxTurns <= 0 disables truncation.
//
// A line whose pre-colon prefix case-insensitively begins with a known role
// name starts a new turn; trailing same-line text becomes the turn's first
// content line. Unprefixed lines are appended to the current turn, blank
// lines are skipped, and a role marker that accumulates no content is
// dropped. Any read failure yields an empty result, never an error.
func ParseLog(path string, maxTurns int) []Turn {
	f, err := os.Open(path)
	if err != nil {
		slog.Debug("session: transcript unreadable", "path", path, "err", err)
		return nil
	}
	defer f.Close()

	var (
		turns   []Turn
		current Role
		content []string
	)

	flush := func() {
		if current == "" {
			return
		}
		text := strings.TrimSpace(strings.Join(content, "\n"))
		// A marker token that merely starts with a role name ("userx")
		// opens a boundary but never emits a turn.
		if text != "" && current.Valid() {
			turns = append(turns, Turn{Role: current, Content: text})
		}
		content = nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if i := strings.IndexByte(line, ':'); i >= 0 {
			prefix := strings.ToLower(strings.TrimSpace(line[:i]))
			if role, ok := roleForPrefix(prefix); ok {
				flush()
				current = role
				if rest := strings.TrimSpace(line[i+1:]); rest != "" {
					content = append(content, rest)
				}
				continue
			}
		}
		if current != "" {
			content = append(content, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		slog.Debug("session: transcript read error", "path", path, "err", err)
		return nil
	}

	if limit := maxTurns * 2; maxTurns > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns
}
