package contextdoc

import (
	"regexp"
	"strings"
)

// Range records where one file's numbered lines sit in a document.
// StartLine is always 1; numbering restarts per block.
type Range struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
	LineCount int `json:"lineCount"`
}

// Index maps file path to its line range within one context document. It
// must be rebuilt whenever the document changes; a stale index breaks
// citation validation.
type Index map[string]Range

var numberedLine = regexp.MustCompile(`^\s*\d+ \|`)

// BuildIndex scans a normalized document and records the numbered-line
// count for each file block. Files with no numbered lines are omitted.
func BuildIndex(doc string) Index {
	idx := make(Index)

	var current string
	count := 0

	commit := func() {
		if current == "" || count == 0 {
			return
		}
		// First occurrence wins, matching the normalizer's dedup rule.
		if _, ok := idx[current]; !ok {
			idx[current] = Range{StartLine: 1, EndLine: count, LineCount: count}
		}
	}

	for _, line := range strings.Split(doc, "\n") {
		if path, ok := isHeader(line); ok {
			commit()
			current = path
			count = 0
			continue
		}
		if current != "" && numberedLine.MatchString(line) {
			count++
		}
	}
	commit()

	return idx
}
