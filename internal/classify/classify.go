// Package classify turns a raw user query into an intent category and a
// bounded keyword set. Classification is rule-based dispatch over an
// ordered list of regular expressions, first match wins. It is pure and
// total: any input string produces a classification.
package classify

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a user query.
type Intent string

const (
	IntentCodeLocation  Intent = "code-location"
	IntentExplanation   Intent = "explanation"
	IntentFlow          Intent = "flow"
	IntentArchitecture  Intent = "architecture"
	IntentBugAnalysis   Intent = "bug-analysis"
	IntentImprovement   Intent = "improvement"
	IntentDocumentation Intent = "documentation"
	IntentGeneral       Intent = "general"
)

// Classification is the result of classifying one query.
type Classification struct {
	Intent   Intent   `json:"intent"`
	Keywords []string `json:"keywords"`
}

// Rule pairs a predicate pattern with the intent it selects.
type Rule struct {
	Pattern *regexp.Regexp
	Intent  Intent
}

// DefaultRules returns the ordered intent rules. Order matters: the
// code-location and architecture patterns run before the broader
// explanation pattern, so "explain the architecture" classifies as
// architecture, not explanation.
func DefaultRules() []Rule {
	return []Rule{
		{regexp.MustCompile(`(?i)\b(where|which file|which files|locate|find the|defined|declared|implemented in)\b`), IntentCodeLocation},
		{regexp.MustCompile(`(?i)\b(architecture|structure|structured|organized|organised|design|overview|high[- ]level|layout)\b`), IntentArchitecture},
		{regexp.MustCompile(`(?i)\b(flow|flows|lifecycle|sequence|pipeline|step by step|happens when|end to end)\b|\bhow\s+(does|do|is|are)\b.*\b(work|works|handled|processed)\b`), IntentFlow},
		{regexp.MustCompile(`(?i)\b(bug|bugs|error|errors|fail|fails|failing|crash|crashes|broken|fix|issue|debug|exception)\b`), IntentBugAnalysis},
		{regexp.MustCompile(`(?i)\b(improve|improvement|refactor|optimize|optimise|simplify|clean up|cleanup|better way)\b`), IntentImprovement},
		{regexp.MustCompile(`(?i)\b(document|documentation|docs|readme|comment|comments|changelog)\b`), IntentDocumentation},
		{regexp.MustCompile(`(?i)\b(how|what|why|explain|describe|understand|works|work|does|mean)\b`), IntentExplanation},
	}
}

// MaxKeywords caps the keyword set per query.
const MaxKeywords = 10

// stopWords are dropped during keyword extraction. Tokens of length <= 2
// are dropped regardless.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "was": {}, "were": {},
	"with": {}, "that": {}, "this": {}, "what": {}, "how": {}, "why": {},
	"where": {}, "when": {}, "which": {}, "does": {}, "can": {}, "could": {},
	"you": {}, "your": {}, "about": {}, "from": {}, "into": {}, "has": {},
	"have": {}, "had": {}, "not": {}, "but": {}, "they": {}, "them": {},
	"there": {}, "their": {}, "its": {}, "will": {}, "would": {},
	"should": {}, "than": {}, "then": {}, "all": {}, "any": {}, "each": {},
	"out": {}, "use": {}, "used": {}, "using": {}, "work": {}, "works": {},
	"please": {}, "show": {}, "tell": {}, "explain": {}, "file": {},
	"files": {}, "code": {},
}

var punctuation = regexp.MustCompile(`[^a-z0-9_\-./\s]+`)

// Classify classifies a query with the default rules.
func Classify(query string) Classification {
	return ClassifyWith(DefaultRules(), query)
}

// ClassifyWith classifies a query using the given ordered rules.
// Queries matching no rule classify as general.
func ClassifyWith(rules []Rule, query string) Classification {
	intent := IntentGeneral
	for _, rule := range rules {
		if rule.Pattern.MatchString(query) {
			intent = rule.Intent
			break
		}
	}

	return Classification{
		Intent:   intent,
		Keywords: Keywords(query),
	}
}

// Keywords extracts up to MaxKeywords search terms from a query:
// lower-cased, punctuation stripped, whitespace split, short tokens and
// stop-words removed, deduplicated, first-seen order.
func Keywords(query string) []string {
	lowered := strings.ToLower(query)
	cleaned := punctuation.ReplaceAllString(lowered, " ")

	seen := make(map[string]struct{})
	keywords := make([]string, 0, MaxKeywords)

	for _, token := range strings.Fields(cleaned) {
		token = strings.Trim(token, "-_./")
		if len(token) <= 2 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
		if len(keywords) == MaxKeywords {
			break
		}
	}

	return keywords
}
