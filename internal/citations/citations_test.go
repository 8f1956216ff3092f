package citations

import (
	"reflect"
	"testing"

	"repolens/internal/contextdoc"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Reference
	}{
		{
			name: "single line",
			text: "See [file:src/auth.ts:12] for the check.",
			want: []Reference{{Raw: "[file:src/auth.ts:12]", Path: "src/auth.ts", StartLine: 12}},
		},
		{
			name: "line range",
			text: "The loop at [file:src/worker.go:40-55] retries.",
			want: []Reference{{Raw: "[file:src/worker.go:40-55]", Path: "src/worker.go", StartLine: 40, EndLine: 55}},
		},
		{
			name: "emphasis markers",
			text: "Bold cite [**file:src/a.ts:3**] here.",
			want: []Reference{{Raw: "[**file:src/a.ts:3**]", Path: "src/a.ts", StartLine: 3}},
		},
		{
			name: "underscore in path",
			text: "See [file:src/my_file.ts:3] for details.",
			want: []Reference{{Raw: "[file:src/my_file.ts:3]", Path: "src/my_file.ts", StartLine: 3}},
		},
		{
			name: "underscore path with range and emphasis",
			text: "See [_file:src/token_counter.go:4-9_].",
			want: []Reference{{Raw: "[_file:src/token_counter.go:4-9_]", Path: "src/token_counter.go", StartLine: 4, EndLine: 9}},
		},
		{
			name: "multiple in order",
			text: "[file:a.ts:1] then [file:b.ts:2]",
			want: []Reference{
				{Raw: "[file:a.ts:1]", Path: "a.ts", StartLine: 1},
				{Raw: "[file:b.ts:2]", Path: "b.ts", StartLine: 2},
			},
		},
		{
			name: "malformed ignored",
			text: "[file:a.ts] [file:b.ts:abc] [notfile:c.ts:1]",
			want: []Reference{},
		},
		{
			name: "no citations",
			text: "plain prose with no references",
			want: []Reference{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func testIndex() contextdoc.Index {
	return contextdoc.Index{
		"src/x.ts":       {StartLine: 1, EndLine: 10, LineCount: 10},
		"src/my_file.ts": {StartLine: 1, EndLine: 5, LineCount: 5},
		"README.md":      {StartLine: 1, EndLine: 40, LineCount: 40},
	}
}

// Citations to underscore paths must be checked like any other, not
// skipped by the parser.
func TestValidateUnderscorePath(t *testing.T) {
	result := Validate("see [file:src/my_file.ts:999]", testIndex())

	if result.Checked != 1 {
		t.Fatalf("Checked = %d, want 1", result.Checked)
	}
	if result.Valid {
		t.Fatal("out-of-range citation to an underscore path must be flagged")
	}
	if result.Findings[0].Reason != ReasonLineOutOfRange {
		t.Errorf("Reason = %q, want %q", result.Findings[0].Reason, ReasonLineOutOfRange)
	}

	ok := Validate("see [file:src/my_file.ts:2-4]", testIndex())
	if !ok.Valid || ok.Checked != 1 {
		t.Errorf("in-range citation should validate, got %+v", ok)
	}
}

func TestValidateOutOfRange(t *testing.T) {
	result := Validate("see [file:src/x.ts:999]", testIndex())

	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Findings) != 1 {
		t.Fatalf("Findings = %+v, want 1", result.Findings)
	}
	if result.Findings[0].Reason != ReasonLineOutOfRange {
		t.Errorf("Reason = %q, want %q", result.Findings[0].Reason, ReasonLineOutOfRange)
	}
}

func TestValidateFileNotFound(t *testing.T) {
	result := Validate("see [file:src/missing.ts:1]", testIndex())

	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if result.Findings[0].Reason != ReasonFileNotFound {
		t.Errorf("Reason = %q, want %q", result.Findings[0].Reason, ReasonFileNotFound)
	}
}

func TestValidateRangeEnd(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		valid bool
	}{
		{"range inside", "[file:src/x.ts:2-9]", true},
		{"range end overflow", "[file:src/x.ts:2-11]", false},
		{"start at boundary", "[file:src/x.ts:1]", true},
		{"end at boundary", "[file:src/x.ts:1-10]", true},
		{"zero line", "[file:src/x.ts:0]", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.text, testIndex())
			if result.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v (findings: %+v)", result.Valid, tt.valid, result.Findings)
			}
		})
	}
}

func TestValidateCleanOutput(t *testing.T) {
	result := Validate("Login happens in [file:src/x.ts:4-7], documented in [file:README.md:12].", testIndex())

	if !result.Valid {
		t.Errorf("expected valid, findings: %+v", result.Findings)
	}
	if result.Checked != 2 {
		t.Errorf("Checked = %d, want 2", result.Checked)
	}
}

func TestValidateNoCitations(t *testing.T) {
	result := Validate("no citations at all", testIndex())
	if !result.Valid || result.Checked != 0 {
		t.Errorf("citation-free output should be valid, got %+v", result)
	}
}
