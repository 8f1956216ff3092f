package selection

import (
	"fmt"
	"reflect"
	"testing"

	"repolens/internal/classify"
)

func TestScoreLoginScenario(t *testing.T) {
	tree := []string{"src/auth/login.ts", "src/auth/session.ts", "README.md"}
	query := "how does login work"
	cls := classify.Classify(query)

	scored := Score(query, cls, tree)

	byPath := make(map[string]ScoredFile)
	for _, sf := range scored {
		byPath[sf.Path] = sf
	}

	login, ok := byPath["src/auth/login.ts"]
	if !ok {
		t.Fatal("login.ts missing from scored output")
	}
	if login.Score < 70 {
		t.Errorf("login.ts score = %d, want >= 70 (file name + keyword)", login.Score)
	}

	if _, ok := byPath["src/auth/session.ts"]; ok {
		t.Errorf("session.ts should score 0 and be excluded, got %v", byPath["src/auth/session.ts"])
	}

	readme, ok := byPath["README.md"]
	if !ok {
		t.Fatal("README.md missing from scored output")
	}
	if readme.Score < DefaultMinScore {
		t.Errorf("README.md score = %d, want >= threshold %d", readme.Score, DefaultMinScore)
	}
}

func TestScoreMonotonicity(t *testing.T) {
	// Adding a keyword match never decreases a path's score.
	tree := []string{"src/billing/invoice.ts"}

	without := Score("anything here", classify.Classification{
		Intent:   classify.IntentGeneral,
		Keywords: []string{"unrelated"},
	}, tree)
	with := Score("anything here", classify.Classification{
		Intent:   classify.IntentGeneral,
		Keywords: []string{"unrelated", "invoice"},
	}, tree)

	scoreOf := func(scored []ScoredFile) int {
		for _, sf := range scored {
			if sf.Path == "src/billing/invoice.ts" {
				return sf.Score
			}
		}
		return 0
	}

	if scoreOf(with) < scoreOf(without) {
		t.Errorf("keyword match decreased score: %d -> %d", scoreOf(without), scoreOf(with))
	}
	if scoreOf(with) != scoreOf(without)+20 {
		t.Errorf("keyword match should add 20: %d -> %d", scoreOf(without), scoreOf(with))
	}
}

func TestScoreStableOrdering(t *testing.T) {
	// Equal scores keep tree order.
	tree := []string{"src/api/users.ts", "src/api/orders.ts"}
	cls := classify.Classification{Intent: classify.IntentExplanation}

	scored := Score("no names mentioned", cls, tree)

	if len(scored) != 2 {
		t.Fatalf("len(scored) = %d, want 2", len(scored))
	}
	if scored[0].Score != scored[1].Score {
		t.Fatalf("test premise broken: scores differ (%d vs %d)", scored[0].Score, scored[1].Score)
	}
	if scored[0].Path != "src/api/users.ts" {
		t.Errorf("tie should keep tree order, got %q first", scored[0].Path)
	}
}

func TestScoreIntentRules(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		intent classify.Intent
		want   int
	}{
		{"code file for explanation", "src/core/engine.go", classify.IntentExplanation, weightCodeFile},
		{"code file for code-location", "src/core/engine.go", classify.IntentCodeLocation, weightCodeFile},
		{"code file ignored for flow", "src/core/engine.go", classify.IntentFlow, 0},
		{"route file for flow", "src/api/userController.ts", classify.IntentFlow, weightRouteFile},
		{"route file for architecture", "src/routes/index.ts", classify.IntentArchitecture, weightRouteFile},
		{"route indicator without code ext", "docs/api.md", classify.IntentFlow, 0},
		{"doc file for documentation", "docs/guide.md", classify.IntentDocumentation, weightDocFile},
		{"config for explanation", "settings.ini", classify.IntentExplanation, weightConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := classify.Classification{Intent: tt.intent}
			sf := scoreOne("zzz unrelated query", cls, tt.path)
			if sf.Score != tt.want {
				t.Errorf("scoreOne(%q, %s) = %d, want %d (reasons: %v)",
					tt.path, tt.intent, sf.Score, tt.want, sf.Reasons)
			}
		})
	}
}

func TestScoreManifestAndReadme(t *testing.T) {
	cls := classify.Classification{Intent: classify.IntentGeneral}

	pkg := scoreOne("zzz", cls, "package.json")
	if pkg.Score != weightManifest {
		t.Errorf("package.json score = %d, want %d", pkg.Score, weightManifest)
	}

	readme := scoreOne("zzz", cls, "README.md")
	if readme.Score != weightReadme {
		t.Errorf("README.md score = %d, want %d", readme.Score, weightReadme)
	}
}

func TestScoreCap(t *testing.T) {
	tree := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		tree = append(tree, fmt.Sprintf("src/pkg%02d/file%02d.go", i, i))
	}
	cls := classify.Classification{Intent: classify.IntentExplanation}

	scored := Score("zzz", cls, tree)
	if len(scored) > MaxScoredCandidates {
		t.Errorf("len(scored) = %d, want <= %d", len(scored), MaxScoredCandidates)
	}
}

func TestPruneTree(t *testing.T) {
	tree := []string{
		"src/app.ts",
		"node_modules/react/index.js",
		"dist/bundle.js",
		".git/HEAD",
		"assets/logo.png",
		"package-lock.json",
		"bin/tool.exe",
		"README.md",
	}

	got := PruneTree(tree)
	want := []string{"src/app.ts", "README.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PruneTree = %v, want %v", got, want)
	}
}

func TestFilter(t *testing.T) {
	scored := []ScoredFile{
		{Path: "a.ts", Score: 90},
		{Path: "b.ts", Score: 15},
		{Path: "c.ts", Score: 9},
		{Path: "d.ts", Score: 5},
	}

	got := Filter(scored, DefaultMinScore, 2)
	want := []string{"a.ts", "b.ts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Filter = %v, want %v", got, want)
	}
}

func TestFallback(t *testing.T) {
	tree := []string{"src/deep/thing.ts", "README.md", "package.json", "sub/package.json"}

	got := Fallback(tree)
	want := []string{"README.md", "package.json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Fallback = %v, want %v", got, want)
	}

	if got := Fallback([]string{"src/a.ts"}); len(got) != 0 {
		t.Errorf("Fallback without readme/manifest = %v, want empty", got)
	}
}
