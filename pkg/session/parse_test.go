package session

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session-2025-01-15-1.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	return path
}

func TestParseLogBasic(t *testing.T) {
	path := writeTranscript(t, "USER: hello\nASSISTANT: hi there\n")
	turns := ParseLog(path, 20)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d: %+v", len(turns), turns)
	}
	if turns[0].Role != RoleUser || turns[0].Content != "hello" {
		t.Errorf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Role != RoleAssistant || turns[1].Content != "hi there" {
		t.Errorf("unexpected second turn: %+v", turns[1])
	}
}

func TestParseLogTruncatesToTrailingTurns(t *testing.T) {
	path := writeTranscript(t, "USER: hello\nASSISTANT: hi\nUSER: bye\n")
	turns := ParseLog(path, 1)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d: %+v", len(turns), turns)
	}
	// The trailing pair survives in original order; the oldest is discarded.
	if turns[0].Role != RoleAssistant || turns[0].Content != "hi" {
		t.Errorf("expected {assistant hi}, got %+v", turns[0])
	}
	if turns[1].Role != RoleUser || turns[1].Content != "bye" {
		t.Errorf("expected {user bye}, got %+v", turns[1])
	}
}

func TestParseLogContinuationAndBlankLines(t *testing.T) {
	raw := "USER: first line\nsecond line\n\nthird line after blank\nASSISTANT: ok\n"
	path := writeTranscript(t, raw)
	turns := ParseLog(path, 20)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d: %+v", len(turns), turns)
	}
	want := "first line\nsecond line\nthird line after blank"
	if turns[0].Content != want {
		t.Errorf("expected content %q, got %q", want, turns[0].Content)
	}
}

func TestParseLogCaseInsensitiveRoles(t *testing.T) {
	path := writeTranscript(t, "user: lower\nAssistant: mixed\nTOOL: shouty\n")
	turns := ParseLog(path, 20)
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d: %+v", len(turns), turns)
	}
	if turns[2].Role != RoleTool {
		t.Errorf("expected tool role, got %q", turns[2].Role)
	}
}

func TestParseLogDropsEmptyMarkers(t *testing.T) {
	path := writeTranscript(t, "USER:\nASSISTANT: real content\n")
	turns := ParseLog(path, 20)
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d: %+v", len(turns), turns)
	}
	if turns[0].Role != RoleAssistant {
		t.Errorf("expected assistant turn, got %+v", turns[0])
	}
}

func TestParseLogIgnoresHeaderAndUnknownPrefixes(t *testing.T) {
	raw := "=== Session started at 2025-01-15T10:00:00Z ===\n" +
		"Model gpt-4o (temp 0.70)\n" +
		"--------------------------------------------------\n" +
		"note: not a role\n" +
		"USER: hello\n"
	path := writeTranscript(t, raw)
	turns := ParseLog(path, 20)
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d: %+v", len(turns), turns)
	}
	if turns[0].Role != RoleUser || turns[0].Content != "hello" {
		t.Errorf("unexpected turn: %+v", turns[0])
	}
}

func TestParseLogInvalidRoleTokenOpensBoundaryButEmitsNothing(t *testing.T) {
	// "userx" begins with a role name so it closes the previous turn,
	// but the token itself is not a valid role and is never emitted.
	raw := "USER: hello\nuserx: garbage\nASSISTANT: hi\n"
	path := writeTranscript(t, raw)
	turns := ParseLog(path, 20)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d: %+v", len(turns), turns)
	}
	if turns[0].Content != "hello" || turns[1].Content != "hi" {
		t.Errorf("unexpected turns: %+v", turns)
	}
}

func TestParseLogMissingFile(t *testing.T) {
	turns := ParseLog(filepath.Join(t.TempDir(), "nope.txt"), 20)
	if len(turns) != 0 {
		t.Fatalf("expected no turns for missing file, got %+v", turns)
	}
}

func TestParseLogUnboundedWhenMaxTurnsZero(t *testing.T) {
	path := writeTranscript(t, "USER: a\nASSISTANT: b\nUSER: c\nASSISTANT: d\n")
	turns := ParseLog(path, 0)
	if len(turns) != 4 {
		t.Fatalf("expected all 4 turns, got %d", len(turns))
	}
}
