// Package citations extracts [file:path:line] references from model
// output and checks them against a context index.
//
// Validation is advisory: findings are returned as data for the caller
// to log, retry on, or surface. Nothing here rejects or rewrites the
// model's answer.
package citations

import (
	"fmt"
	"regexp"
	"strconv"

	"repolens/internal/contextdoc"
)

// Reference is one parsed citation.
type Reference struct {
	Raw       string `json:"raw"`
	Path      string `json:"path"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine,omitempty"` // 0 when the citation names a single line
}

// Reason classifies a finding.
type Reason string

const (
	// ReasonFileNotFound means the cited path is absent from the index.
	ReasonFileNotFound Reason = "file-not-found"
	// ReasonLineOutOfRange means a cited line falls outside the file's range.
	ReasonLineOutOfRange Reason = "line-out-of-range"
)

// Finding is one invalid citation with why it failed.
type Finding struct {
	Reference Reference `json:"reference"`
	Reason    Reason    `json:"reason"`
	Message   string    `json:"message"`
}

// Result reports validation over one piece of model output.
type Result struct {
	Valid    bool      `json:"valid"`
	Checked  int       `json:"checked"`
	Findings []Finding `json:"findings,omitempty"`
}

// citationPattern matches [file:path:line] and [file:path:start-end],
// tolerating emphasis markers the model sometimes wraps citations in
// (e.g. [**file:src/a.ts:3**]). Emphasis is only recognized at the
// brackets; the path itself may contain underscores.
var citationPattern = regexp.MustCompile(`\[\*{0,2}_{0,2}file:([^\[\]:]+):(\d+)(?:-(\d+))?_{0,2}\*{0,2}\]`)

// Parse extracts every citation reference from text, in order of
// appearance. Malformed near-citations are ignored, never an error.
func Parse(text string) []Reference {
	matches := citationPattern.FindAllStringSubmatch(text, -1)
	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		start, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		ref := Reference{Raw: m[0], Path: m[1], StartLine: start}
		if m[3] != "" {
			end, err := strconv.Atoi(m[3])
			if err != nil {
				continue
			}
			ref.EndLine = end
		}
		refs = append(refs, ref)
	}
	return refs
}

// Validate checks every citation in text against the index.
func Validate(text string, idx contextdoc.Index) Result {
	refs := Parse(text)
	result := Result{Checked: len(refs)}

	for _, ref := range refs {
		r, ok := idx[ref.Path]
		if !ok {
			result.Findings = append(result.Findings, Finding{
				Reference: ref,
				Reason:    ReasonFileNotFound,
				Message:   fmt.Sprintf("%s is not part of the supplied context", ref.Path),
			})
			continue
		}

		if bad, line := outOfRange(ref, r); bad {
			result.Findings = append(result.Findings, Finding{
				Reference: ref,
				Reason:    ReasonLineOutOfRange,
				Message: fmt.Sprintf("line %d of %s outside context range %d-%d",
					line, ref.Path, r.StartLine, r.EndLine),
			})
		}
	}

	result.Valid = len(result.Findings) == 0
	return result
}

func outOfRange(ref Reference, r contextdoc.Range) (bool, int) {
	if ref.StartLine < r.StartLine || ref.StartLine > r.EndLine {
		return true, ref.StartLine
	}
	if ref.EndLine != 0 && (ref.EndLine < r.StartLine || ref.EndLine > r.EndLine) {
		return true, ref.EndLine
	}
	return false, 0
}
