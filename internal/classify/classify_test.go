package classify

import (
	"reflect"
	"regexp"
	"testing"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		query string
		want  Intent
	}{
		{"where is the session token created", IntentCodeLocation},
		{"which file handles billing", IntentCodeLocation},
		{"explain the architecture of this project", IntentArchitecture},
		{"how is the project structured", IntentArchitecture},
		{"what is the request flow for checkout", IntentFlow},
		{"how does login work", IntentFlow},
		{"why does the build fail on windows", IntentBugAnalysis},
		{"how can I refactor the parser", IntentImprovement},
		{"is there documentation for the webhook API", IntentDocumentation},
		{"what does the scheduler do", IntentExplanation},
		{"deployment", IntentGeneral},
		{"", IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Classify(tt.query)
			if got.Intent != tt.want {
				t.Errorf("Classify(%q).Intent = %q, want %q", tt.query, got.Intent, tt.want)
			}
		})
	}
}

func TestClassifyDeterminism(t *testing.T) {
	query := "how does the login flow interact with the session cache"

	first := Classify(query)
	for i := 0; i < 5; i++ {
		again := Classify(query)
		if again.Intent != first.Intent {
			t.Fatalf("intent changed between calls: %q vs %q", again.Intent, first.Intent)
		}
		if !reflect.DeepEqual(again.Keywords, first.Keywords) {
			t.Fatalf("keywords changed between calls: %v vs %v", again.Keywords, first.Keywords)
		}
	}
}

func TestRuleOrderWins(t *testing.T) {
	// Both the architecture and explanation patterns match; the earlier
	// rule must win.
	got := Classify("explain the architecture")
	if got.Intent != IntentArchitecture {
		t.Errorf("Intent = %q, want %q", got.Intent, IntentArchitecture)
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "stop words and short tokens dropped",
			query: "how does the login work in db",
			want:  []string{"login"},
		},
		{
			name:  "lower-cased and deduplicated",
			query: "Login LOGIN login handler",
			want:  []string{"login", "handler"},
		},
		{
			name:  "punctuation stripped",
			query: "what's wrong with billing, exactly?",
			want:  []string{"wrong", "billing", "exactly"},
		},
		{
			name:  "paths survive extraction",
			query: "explain src/auth.ts behavior",
			want:  []string{"src/auth.ts", "behavior"},
		},
		{
			name:  "empty query",
			query: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Keywords(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Keywords(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestKeywordsCap(t *testing.T) {
	query := "alpha bravo charlie delta echo foxtrot golf hotel india juliett kilo lima"

	got := Keywords(query)
	if len(got) != MaxKeywords {
		t.Errorf("len(Keywords) = %d, want %d", len(got), MaxKeywords)
	}
	if got[0] != "alpha" || got[MaxKeywords-1] != "juliett" {
		t.Errorf("keywords should keep first-seen order, got %v", got)
	}
}

func TestClassifyWithCustomRules(t *testing.T) {
	rules := []Rule{
		{Pattern: mustCompile(`deploy`), Intent: IntentFlow},
	}

	got := ClassifyWith(rules, "deploy pipeline")
	if got.Intent != IntentFlow {
		t.Errorf("Intent = %q, want %q", got.Intent, IntentFlow)
	}

	got = ClassifyWith(rules, "anything else")
	if got.Intent != IntentGeneral {
		t.Errorf("Intent = %q, want %q for unmatched query", got.Intent, IntentGeneral)
	}
}

func mustCompile(expr string) *regexp.Regexp {
	return regexp.MustCompile(expr)
}
