package memory

// Merge combines the stored record with a freshly extracted candidate. The
// profile keeps the candidate's value when non-empty, otherwise the current
// one. Each list field becomes the set union of both sides by exact string
// equality; the result order is not significant and must not be relied upon.
// Near-duplicate rephrasings are deliberately not collapsed. A nil current
// is equivalent to union against empty sets. LastUpdated is left empty for
// the store to stamp on save. Pure function, no I/O.
func Merge(current *Record, candidate *Record) *Record {
	merged := &Record{UserProfile: candidate.UserProfile}
	if merged.UserProfile == "" && current != nil {
		merged.UserProfile = current.UserProfile
	}

	var curPrefs, curWork, curLoops []string
	if current != nil {
		curPrefs = current.Preferences
		curWork = current.WorkInProgress
		curLoops = current.OpenLoops
	}
	merged.Preferences = union(curPrefs, candidate.Preferences)
	merged.WorkInProgress = union(curWork, candidate.WorkInProgress)
	merged.OpenLoops = union(curLoops, candidate.OpenLoops)
	return merged
}

func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
