package selection

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"repolens/internal/classify"
)

// ScoredFile is one candidate with its accumulated score and the rules
// that fired for it.
type ScoredFile struct {
	Path    string   `json:"path"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

// Additive scoring weights. Rules are independent; a path can collect
// several of them.
const (
	weightBaseName  = 50
	weightKeyword   = 20
	weightCodeFile  = 15
	weightRouteFile = 25
	weightDocFile   = 30
	weightManifest  = 10
	weightReadme    = 15
	weightConfig    = 5
)

// lock files carry no answerable content and are pruned before scoring.
var lockNames = map[string]struct{}{
	"package-lock.json": {},
	"yarn.lock":         {},
	"pnpm-lock.yaml":    {},
	"cargo.lock":        {},
	"composer.lock":     {},
	"poetry.lock":       {},
	"gemfile.lock":      {},
	"go.sum":            {},
}

var binaryExtensions = map[string]struct{}{
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".a": {}, ".o": {},
	".bin": {}, ".wasm": {}, ".jar": {}, ".class": {}, ".pyc": {},
	".zip": {}, ".tar": {}, ".gz": {}, ".br": {}, ".zst": {},
	".pdf": {}, ".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {},
	".mp3": {}, ".mp4": {}, ".mov": {}, ".sqlite": {}, ".db": {},
}

// PruneTree removes paths that can never be worth sending to the model:
// vendored and build-output directories, version-control internals,
// images, archives and other binaries, and lock files. This is a cheap
// pre-filter, not part of the scoring math.
func PruneTree(tree []string) []string {
	pruned := make([]string, 0, len(tree))
	for _, p := range tree {
		if strings.HasPrefix(p, ".git/") || strings.Contains(p, "/.git/") {
			continue
		}
		if enry.IsVendor(p) {
			continue
		}
		if enry.IsImage(p) {
			continue
		}
		if _, ok := lockNames[strings.ToLower(path.Base(p))]; ok {
			continue
		}
		if _, ok := binaryExtensions[strings.ToLower(path.Ext(p))]; ok {
			continue
		}
		pruned = append(pruned, p)
	}
	return pruned
}

// Score ranks every path in the pruned tree against the query and its
// classification. Only paths with a positive score are returned, sorted
// by score descending; ties keep tree order (the sort is stable, which
// callers rely on for reproducibility). The list is capped at
// MaxScoredCandidates.
func Score(query string, cls classify.Classification, tree []string) []ScoredFile {
	queryLower := strings.ToLower(query)

	scored := make([]ScoredFile, 0, len(tree))
	for _, p := range tree {
		sf := scoreOne(queryLower, cls, p)
		if sf.Score > 0 {
			scored = append(scored, sf)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > MaxScoredCandidates {
		scored = scored[:MaxScoredCandidates]
	}
	return scored
}

func scoreOne(queryLower string, cls classify.Classification, p string) ScoredFile {
	sf := ScoredFile{Path: p}
	pathLower := strings.ToLower(p)
	base := strings.ToLower(path.Base(p))

	// Full base name, or its stem for names like login.ts when the user
	// writes just "login". Stems shorter than 3 runes are skipped; they
	// would match almost any query.
	stem := strings.TrimSuffix(base, path.Ext(base))
	if strings.Contains(queryLower, base) || (len(stem) >= 3 && strings.Contains(queryLower, stem)) {
		sf.add(weightBaseName, "file name mentioned in query")
	}

	for _, kw := range cls.Keywords {
		if strings.Contains(pathLower, kw) {
			sf.add(weightKeyword, fmt.Sprintf("keyword %q in path", kw))
		}
	}

	isCode := IsCodeFile(p)
	switch cls.Intent {
	case classify.IntentCodeLocation, classify.IntentExplanation:
		if isCode {
			sf.add(weightCodeFile, "code file matches intent")
		}
	case classify.IntentFlow, classify.IntentArchitecture:
		if isCode && hasRouteIndicator(p) {
			sf.add(weightRouteFile, "request-handling file matches intent")
		}
	case classify.IntentDocumentation:
		if IsDocFile(p) {
			sf.add(weightDocFile, "documentation file matches intent")
		}
	}

	if IsManifest(p) {
		sf.add(weightManifest, "dependency manifest")
	}
	if isReadme(p) {
		sf.add(weightReadme, "readme")
	}
	if cls.Intent == classify.IntentExplanation && isConfigFile(p) {
		sf.add(weightConfig, "config file for explanation")
	}

	return sf
}

func (sf *ScoredFile) add(points int, reason string) {
	sf.Score += points
	sf.Reasons = append(sf.Reasons, reason)
}

// Filter applies the caller-side minimum score and cap before expansion.
func Filter(scored []ScoredFile, minScore, limit int) []string {
	out := make([]string, 0, limit)
	for _, sf := range scored {
		if sf.Score < minScore {
			continue
		}
		out = append(out, sf.Path)
		if len(out) == limit {
			break
		}
	}
	return out
}
