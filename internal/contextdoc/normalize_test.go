package contextdoc

import (
	"strings"
	"testing"
)

func TestNormalizeDuplicateBlocks(t *testing.T) {
	doc := strings.Join([]string{
		"--- FILE: src/a.ts ---",
		"   1 | first version",
		"",
		"--- FILE: src/b.ts ---",
		"   1 | b content",
		"",
		"--- FILE: src/a.ts ---",
		"   1 | second version",
		"",
	}, "\n")

	got := Normalize(doc)

	if strings.Count(got, "--- FILE: src/a.ts ---") != 1 {
		t.Errorf("duplicate header survived:\n%s", got)
	}
	if !strings.Contains(got, "first version") {
		t.Error("first occurrence should win")
	}
	if strings.Contains(got, "second version") {
		t.Error("repeated block's content should be dropped")
	}
	if !strings.Contains(got, "b content") {
		t.Error("unrelated block lost")
	}
}

func TestNormalizeBlankRuns(t *testing.T) {
	doc := "--- FILE: a.ts ---\n   1 | x\n\n\n\n   2 | y\n\n\n"

	got := Normalize(doc)

	if strings.Contains(got, "\n\n\n") {
		t.Errorf("blank run survived:\n%q", got)
	}
	if strings.HasSuffix(got, "\n") {
		t.Errorf("trailing blank survived:\n%q", got)
	}
}

func TestNormalizeLeadingBlanks(t *testing.T) {
	doc := "\n\n--- FILE: a.ts ---\n   1 | x"
	got := Normalize(doc)
	if !strings.HasPrefix(got, "--- FILE:") {
		t.Errorf("leading blanks survived: %q", got)
	}
}

func TestNormalizeKeepsNotices(t *testing.T) {
	doc := strings.Join([]string{
		"--- FILE: a.ts ---",
		"   1 | x",
		"--- FILE: a.ts ---",
		"   1 | dup body",
		"--- NOTE: context truncated; remaining files omitted to stay within the token budget ---",
	}, "\n")

	got := Normalize(doc)

	if !strings.Contains(got, "NOTE: context truncated") {
		t.Error("notice inside a dropped block must survive")
	}
	if strings.Contains(got, "dup body") {
		t.Error("dropped block body should not survive")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	docs := []string{
		"",
		"\n\n\n",
		"--- FILE: a.ts ---\n   1 | x\n\n--- FILE: a.ts ---\n   1 | y\n",
		"plain text\n\n\nmore text",
		"--- FILE: a.ts ---\n   1 | x\n\n--- FILE: b.ts ---\n   1 | y\n\nCONTEXT boundary marker\n",
	}

	for _, doc := range docs {
		once := Normalize(doc)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\nonce:  %q\ntwice: %q", doc, once, twice)
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Errorf("Normalize(\"\") = %q", got)
	}
}
