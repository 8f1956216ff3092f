package selection

import (
	"path"
	"strings"
)

// Bypass checks whether the raw query names any file in the tree by its
// base name. A non-empty match replaces the scorer entirely for this
// query: if a user names a file, trust them. The result gets the
// always-useful files appended and is capped at MaxBypassFiles.
//
// Matching is case-insensitive substring on the base name. Short or
// generic base names (a file literally named a.ts, or index.ts) can
// over-match; that imprecision is part of the contract, not something to
// fix silently here.
func Bypass(query string, tree []string) []string {
	queryLower := strings.ToLower(query)
	if strings.TrimSpace(queryLower) == "" {
		return nil
	}

	var matched []string
	for _, p := range tree {
		base := strings.ToLower(path.Base(p))
		if base == "" {
			continue
		}
		if strings.Contains(queryLower, base) {
			matched = append(matched, p)
		}
	}

	if len(matched) == 0 {
		return nil
	}

	return AppendAlwaysUseful(matched, tree, MaxBypassFiles)
}
