package contextdoc

import "strings"

// PackPrompt re-truncates an already-assembled document at line
// granularity so the full prompt fits the model's hard window. Unlike
// Assemble, this may cut a file mid-block: lines are kept from the start
// of the document until the limit is reached, then a notice marks the
// cut point. Documents already within maxTokens pass through unchanged.
func PackPrompt(doc string, count CountFunc, maxTokens int) string {
	if doc == "" || count(doc) <= maxTokens {
		return doc
	}

	notice := windowNotice + "\n"
	noticeCost := count(notice)

	var (
		b     strings.Builder
		total int
	)
	for _, line := range strings.SplitAfter(doc, "\n") {
		if line == "" {
			continue
		}
		cost := count(line)
		if total+cost+noticeCost > maxTokens {
			break
		}
		b.WriteString(line)
		total += cost
	}

	if total+noticeCost <= maxTokens {
		b.WriteString(notice)
	}
	return b.String()
}
