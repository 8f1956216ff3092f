package contextdoc

import "strings"

// Normalize cleans a context document so it can be safely re-assembled
// across calls: duplicate file blocks are removed (first occurrence wins,
// everything up to the next header for a repeated path is dropped), blank
// runs collapse to a single blank line, and leading/trailing blanks go
// away. Header lines and lines carrying NOTE: or CONTEXT markers survive
// regardless.
//
// Normalize is idempotent: applying it to its own output is a no-op.
func Normalize(doc string) string {
	if doc == "" {
		return ""
	}

	lines := strings.Split(doc, "\n")

	seen := make(map[string]struct{})
	dropping := false
	deduped := make([]string, 0, len(lines))
	for _, line := range lines {
		if path, ok := isHeader(line); ok {
			if _, dup := seen[path]; dup {
				dropping = true
				continue
			}
			seen[path] = struct{}{}
			dropping = false
			deduped = append(deduped, line)
			continue
		}
		if dropping {
			// Notices inside a dropped block still matter to the reader.
			if isProtected(line) {
				deduped = append(deduped, line)
			}
			continue
		}
		deduped = append(deduped, line)
	}

	// Collapse blank runs.
	collapsed := make([]string, 0, len(deduped))
	prevBlank := false
	for _, line := range deduped {
		blank := strings.TrimSpace(line) == ""
		if blank && prevBlank {
			continue
		}
		collapsed = append(collapsed, line)
		prevBlank = blank
	}

	// Trim leading and trailing blanks.
	start := 0
	for start < len(collapsed) && strings.TrimSpace(collapsed[start]) == "" {
		start++
	}
	end := len(collapsed)
	for end > start && strings.TrimSpace(collapsed[end-1]) == "" {
		end--
	}

	return strings.Join(collapsed[start:end], "\n")
}

func isProtected(line string) bool {
	if _, ok := isHeader(line); ok {
		return true
	}
	return strings.Contains(line, "NOTE:") || strings.Contains(line, "CONTEXT")
}
