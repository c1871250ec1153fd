package memory

import (
	"fmt"
	"strings"
)

// ContextBlock renders the record as the system-context block injected at
// the start of a conversation.
func (r *Record) ContextBlock() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "LONG-TERM MEMORY (last updated %s)\n", orUnknown(r.LastUpdated))
	fmt.Fprintf(&sb, "User profile: %s\n", orNone(r.UserProfile))
	writeSection(&sb, "Preferences", r.Preferences)
	writeSection(&sb, "Work in progress", r.WorkInProgress)
	writeSection(&sb, "Open loops", r.OpenLoops)
	return sb.String()
}

func writeSection(sb *strings.Builder, title string, items []string) {
	fmt.Fprintf(sb, "%s:\n", title)
	if len(items) == 0 {
		sb.WriteString("- none\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}
