// Package selection decides which repository files matter for a query.
//
// Two paths produce a selection: the bypass matcher, which trusts an
// explicit file mention in the query, and the relevance scorer followed
// by neighbor expansion. The Result type carries which path produced it
// so callers branch on the tag rather than inferring from emptiness.
//
// Every function here is pure over its inputs and never fails; degenerate
// input yields an empty or fallback selection.
package selection

import (
	"path"
	"strings"
)

// Source tags which path produced a selection.
type Source string

const (
	// SourceBypass means the query named a file explicitly and the scorer
	// was skipped entirely.
	SourceBypass Source = "bypass"
	// SourceScored means the selection came from scoring plus expansion.
	SourceScored Source = "scored"
	// SourceCache means a previously scored selection was served from cache.
	SourceCache Source = "cache"
	// SourceFallback means scoring produced nothing usable and the default
	// set was substituted.
	SourceFallback Source = "fallback"
)

// Result is a finished selection with its provenance.
type Result struct {
	Source Source       `json:"source"`
	Files  []string     `json:"files"`
	Scored []ScoredFile `json:"scored,omitempty"` // populated on the scored path
}

// Bounds for the two selection paths.
const (
	// MaxScoredCandidates caps the raw scorer output.
	MaxScoredCandidates = 30
	// MaxBypassFiles caps a bypass selection.
	MaxBypassFiles = 10
	// MaxSelection caps the final list after expansion.
	MaxSelection = 30
	// DefaultMinScore is the threshold applied before expansion.
	DefaultMinScore = 10
	// DefaultPreExpandCap bounds how many scored files feed the expander.
	DefaultPreExpandCap = 20
)

// AlwaysUseful are appended to any selection when present in the tree and
// not already selected. They anchor answers in project-level facts.
var AlwaysUseful = []string{"package.json", "README.md", "tsconfig.json"}

// manifestNames are recognized dependency manifests, lower-cased.
var manifestNames = map[string]struct{}{
	"package.json":     {},
	"requirements.txt": {},
	"pyproject.toml":   {},
	"pipfile":          {},
	"pom.xml":          {},
	"build.gradle":     {},
	"cargo.toml":       {},
	"go.mod":           {},
	"gemfile":          {},
	"composer.json":    {},
	"setup.py":         {},
	"mix.exs":          {},
}

// codeExtensions is the fixed extension set treated as source code.
var codeExtensions = map[string]struct{}{
	".ts": {}, ".tsx": {}, ".js": {}, ".jsx": {}, ".mjs": {}, ".cjs": {},
	".go": {}, ".py": {}, ".rb": {}, ".java": {}, ".kt": {}, ".rs": {},
	".c": {}, ".h": {}, ".cpp": {}, ".hpp": {}, ".cc": {}, ".cs": {},
	".php": {}, ".swift": {}, ".scala": {}, ".vue": {}, ".svelte": {},
}

// docExtensions is the fixed extension set treated as documentation.
var docExtensions = map[string]struct{}{
	".md": {}, ".mdx": {}, ".rst": {}, ".txt": {}, ".adoc": {},
}

// configExtensions is the structured-config extension set.
var configExtensions = map[string]struct{}{
	".json": {}, ".yaml": {}, ".yml": {}, ".toml": {}, ".ini": {}, ".env": {},
}

// routeIndicators mark request-handling code for flow/architecture queries.
var routeIndicators = []string{
	"route", "api", "controller", "handler", "endpoint", "middleware",
}

// IsCodeFile reports whether the path has a recognized code extension.
func IsCodeFile(p string) bool {
	_, ok := codeExtensions[strings.ToLower(path.Ext(p))]
	return ok
}

// IsDocFile reports whether the path has a documentation extension or a
// readme base name.
func IsDocFile(p string) bool {
	base := strings.ToLower(path.Base(p))
	if strings.HasPrefix(base, "readme.") {
		return true
	}
	_, ok := docExtensions[strings.ToLower(path.Ext(p))]
	return ok
}

// IsManifest reports whether the base name is a known dependency manifest.
func IsManifest(p string) bool {
	_, ok := manifestNames[strings.ToLower(path.Base(p))]
	return ok
}

func isReadme(p string) bool {
	base := strings.ToLower(path.Base(p))
	return base == "readme.md" || base == "readme.txt"
}

func isConfigFile(p string) bool {
	_, ok := configExtensions[strings.ToLower(path.Ext(p))]
	return ok
}

func hasRouteIndicator(p string) bool {
	lowered := strings.ToLower(p)
	for _, ind := range routeIndicators {
		if strings.Contains(lowered, ind) {
			return true
		}
	}
	return false
}

// AppendAlwaysUseful adds the always-useful files that exist in the tree
// and are not yet selected, then caps the list at limit.
func AppendAlwaysUseful(selected, tree []string, limit int) []string {
	inTree := make(map[string]struct{}, len(tree))
	for _, p := range tree {
		inTree[p] = struct{}{}
	}
	have := make(map[string]struct{}, len(selected))
	for _, p := range selected {
		have[p] = struct{}{}
	}

	out := append([]string(nil), selected...)
	for _, useful := range AlwaysUseful {
		if _, ok := inTree[useful]; !ok {
			continue
		}
		if _, ok := have[useful]; ok {
			continue
		}
		out = append(out, useful)
		have[useful] = struct{}{}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Fallback returns the default selection used when scoring finds nothing:
// the readme and any recognized manifests present in the tree.
func Fallback(tree []string) []string {
	var out []string
	for _, p := range tree {
		if isReadme(p) || (IsManifest(p) && !strings.Contains(p, "/")) {
			out = append(out, p)
		}
	}
	if len(out) > MaxBypassFiles {
		out = out[:MaxBypassFiles]
	}
	return out
}
