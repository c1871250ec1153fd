// Package session handles conversation transcripts: writing one line-oriented
// log file per run, parsing a log back into role-tagged turns, and selecting
// the previous session's log within a directory.
package session

import "strings"

// Role identifies the speaker of a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleFunction  Role = "function"
	RoleTool      Role = "tool"
	RoleDeveloper Role = "developer"
)

// knownRoles lists every role a transcript line may open a turn with.
var knownRoles = []Role{
	RoleUser,
	RoleAssistant,
	RoleSystem,
	RoleFunction,
	RoleTool,
	RoleDeveloper,
}

// Valid reports whether r is one of the recognized transcript roles.
func (r Role) Valid() bool {
	for _, k := range knownRoles {
		if r == k {
			return true
		}
	}
	return false
}

// Turn is a single role-tagged utterance within a session transcript.
// Content is always trimmed and non-empty for turns produced by the parser.
type Turn struct {
	Role    Role
	Content string
}

// roleForPrefix matches the lowercased pre-colon prefix of a transcript line
// against the known roles. A prefix matches when it begins with a role name;
// the returned role is the prefix's first whitespace-delimited token, which
// the caller must still check with Valid before emitting a turn.
func roleForPrefix(prefix string) (Role, bool) {
	for _, k := range knownRoles {
		if strings.HasPrefix(prefix, string(k)) {
			tok := prefix
			if i := strings.IndexAny(prefix, " \t"); i >= 0 {
				tok = prefix[:i]
			}
			return Role(tok), true
		}
	}
	return "", false
}
