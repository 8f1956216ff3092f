// Package contextdoc builds, normalizes, and indexes the line-numbered
// multi-file document handed to the model.
//
// Two truncation stages exist and stay separate: Assemble works at file
// granularity (a file is included whole or not at all), PackPrompt works
// at line granularity for final prompt packing. They have different
// invariants; do not merge them.
package contextdoc

import (
	"context"
	"fmt"
	"strings"
)

const (
	headerPrefix = "--- FILE: "
	headerSuffix = " ---"

	// budgetNotice marks a file-granularity cut.
	budgetNotice = "--- NOTE: context truncated; remaining files omitted to stay within the token budget ---"
	// cancelNotice marks assembly stopped by request cancellation.
	cancelNotice = "--- NOTE: context truncated; request cancelled before remaining files were read ---"
	// windowNotice marks a line-granularity cut.
	windowNotice = "--- NOTE: context truncated to fit the model context window ---"
)

// ReadFunc returns the content for a path, or ok=false when the file is
// absent or unreadable; absent files are skipped, never an error.
type ReadFunc func(path string) (string, bool)

// CountFunc approximates the target model's tokenizer. It must be
// deterministic.
type CountFunc func(text string) int

// Result is the output of one assembly pass.
type Result struct {
	Document  string   `json:"document"`
	Included  []string `json:"included"`
	Omitted   []string `json:"omitted,omitempty"`
	Tokens    int      `json:"tokens"`
	Truncated bool     `json:"truncated"`
}

// Header returns the block header line for a path.
func Header(path string) string {
	return headerPrefix + path + headerSuffix
}

// isHeader parses a block header line, returning the path.
func isHeader(line string) (string, bool) {
	if !strings.HasPrefix(line, headerPrefix) || !strings.HasSuffix(line, headerSuffix) {
		return "", false
	}
	path := line[len(headerPrefix) : len(line)-len(headerSuffix)]
	if path == "" {
		return "", false
	}
	return path, true
}

// NumberLines prefixes every line of content with a 4-digit right-justified
// 1-based line number and " | ". A single trailing newline does not count
// as an extra line.
func NumberLines(content string) string {
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")

	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%4d | %s\n", i+1, line)
	}
	return b.String()
}

// Block renders one complete file block: header, numbered lines, and a
// separating blank line.
func Block(path, content string) string {
	return Header(path) + "\n" + NumberLines(content) + "\n"
}

// Assemble builds a context document from the selected files, in order,
// under a total token budget. Each file is admitted whole or not at all;
// the first file that would overflow the budget stops assembly and every
// remaining file is omitted, with a notice line marking the cut. Absent
// files are skipped silently. The context is checked between files so a
// cancelled request stops further reads.
//
// Invariant: the returned token total never exceeds budget.
func Assemble(ctx context.Context, files []string, read ReadFunc, count CountFunc, budget int) Result {
	var (
		b         strings.Builder
		result    Result
		cancelled bool
	)

	for i, path := range files {
		if ctx.Err() != nil {
			result.Omitted = append(result.Omitted, files[i:]...)
			result.Truncated = true
			cancelled = true
			break
		}

		content, ok := read(path)
		if !ok {
			continue
		}

		block := Block(path, content)
		cost := count(block)
		if result.Tokens+cost > budget {
			result.Omitted = append(result.Omitted, files[i:]...)
			result.Truncated = true
			break
		}

		b.WriteString(block)
		result.Tokens += cost
		result.Included = append(result.Included, path)
	}

	if result.Truncated {
		notice := budgetNotice + "\n"
		if cancelled {
			notice = cancelNotice + "\n"
		}
		if cost := count(notice); result.Tokens+cost <= budget {
			b.WriteString(notice)
			result.Tokens += cost
		}
	}

	result.Document = b.String()
	return result
}

// BudgetFor derives the assembly budget from the model window and the
// overhead reserved for the system prompt, question, and history.
func BudgetFor(contextWindow, reservedOverhead int) int {
	budget := contextWindow - reservedOverhead
	if budget < 0 {
		return 0
	}
	return budget
}
