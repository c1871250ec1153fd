package memory

import "fmt"

// Record is the canonical long-term memory for the single user. The list
// fields are semantically sets: duplicates carry no meaning and ordering is
// not significant.
type Record struct {
	UserProfile    string   `json:"user_profile"`
	Preferences    []string `json:"preferences"`
	WorkInProgress []string `json:"work_in_progress"`
	OpenLoops      []string `json:"open_loops"`
	LastUpdated    string   `json:"last_updated"`
}

// Violation describes why a candidate record failed schema validation.
// Callers treat any violation as total absence of the record; the specific
// field and reason exist for diagnostics only.
type Violation struct {
	Field  string
	Reason string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("memory: field %q %s", v.Field, v.Reason)
}

// stringListFields are the schema keys holding list-of-string values.
var stringListFields = []string{"preferences", "work_in_progress", "open_loops"}

// ValidateRecord checks an untyped structure against the full five-field
// record schema. A nil return means valid; otherwise the first violation
// found is returned. There is no coercion or partial repair.
func ValidateRecord(m map[string]any) *Violation {
	if v := validateContent(m); v != nil {
		return v
	}
	if _, ok := m["last_updated"].(string); !ok {
		return violationFor(m, "last_updated", "string")
	}
	return nil
}

// ValidateCandidate checks an extraction result against the four content
// fields of the schema. The timestamp is absent from candidates; the store
// stamps it on save.
func ValidateCandidate(m map[string]any) *Violation {
	return validateContent(m)
}

func validateContent(m map[string]any) *Violation {
	if m == nil {
		return &Violation{Field: "", Reason: "is not an object"}
	}
	if _, ok := m["user_profile"].(string); !ok {
		return violationFor(m, "user_profile", "string")
	}
	for _, field := range stringListFields {
		raw, ok := m[field]
		if !ok {
			return &Violation{Field: field, Reason: "is missing"}
		}
		list, ok := raw.([]any)
		if !ok {
			return &Violation{Field: field, Reason: "is not a list"}
		}
		for _, item := range list {
			if _, ok := item.(string); !ok {
				return &Violation{Field: field, Reason: "contains a non-string element"}
			}
		}
	}
	return nil
}

func violationFor(m map[string]any, field, want string) *Violation {
	if _, ok := m[field]; !ok {
		return &Violation{Field: field, Reason: "is missing"}
	}
	return &Violation{Field: field, Reason: "is not a " + want}
}

// CandidateFromShape validates an untyped extraction result against the
// candidate schema and builds a typed Record from it. The returned record has
// an empty LastUpdated; the store stamps it on save. All-or-nothing: any
// violation yields a nil record.
func CandidateFromShape(m map[string]any) (*Record, *Violation) {
	if v := ValidateCandidate(m); v != nil {
		return nil, v
	}
	return fromShape(m), nil
}

// fromShape builds a typed Record from a map that already passed validation.
func fromShape(m map[string]any) *Record {
	r := &Record{UserProfile: m["user_profile"].(string)}
	if ts, ok := m["last_updated"].(string); ok {
		r.LastUpdated = ts
	}
	lists := map[string]*[]string{
		"preferences":      &r.Preferences,
		"work_in_progress": &r.WorkInProgress,
		"open_loops":       &r.OpenLoops,
	}
	for field, dst := range lists {
		for _, item := range m[field].([]any) {
			*dst = append(*dst, item.(string))
		}
	}
	return r
}
