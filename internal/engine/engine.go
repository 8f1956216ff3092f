// Package engine orchestrates one query end to end: classification,
// selection (bypass, cache, or scoring), context assembly, and the
// model round trip with citation checking.
package engine

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"repolens/internal/cache"
	"repolens/internal/classify"
	"repolens/internal/config"
	"repolens/internal/contextdoc"
	"repolens/internal/errors"
	"repolens/internal/llm"
	"repolens/internal/logging"
	"repolens/internal/selection"
	"repolens/internal/session"
	"repolens/internal/snapshot"
	"repolens/internal/tokens"
)

// Engine wires the pipeline components together. Construct with New;
// all collaborators are injected, nothing here is a singleton.
type Engine struct {
	snap    *snapshot.Provider
	caches  *cache.Service
	counter tokens.Counter
	cfg     *config.Config
	log     *logging.Logger
	client  llm.Client     // nil when no API key is configured
	store   *session.Store // nil when sessions are disabled

	// group collapses concurrent identical scoring runs. Last-writer-wins
	// on the cache store is fine since the values are equal.
	group singleflight.Group
}

// Options carries the engine's collaborators.
type Options struct {
	Snapshot *snapshot.Provider
	Caches   *cache.Service
	Counter  tokens.Counter
	Config   *config.Config
	Logger   *logging.Logger
	Client   llm.Client
	Sessions *session.Store
}

// New builds an engine. Snapshot, Caches, Counter, and Config are
// required; Client and Sessions may be nil for selection-only use.
func New(opts Options) (*Engine, error) {
	if opts.Snapshot == nil || opts.Caches == nil || opts.Counter == nil || opts.Config == nil {
		return nil, errors.New(errors.InternalError, "engine requires snapshot, caches, counter, and config", nil)
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Engine{
		snap:    opts.Snapshot,
		caches:  opts.Caches,
		counter: opts.Counter,
		cfg:     opts.Config,
		log:     log.With("engine"),
		client:  opts.Client,
		store:   opts.Sessions,
	}, nil
}

// Namespace scopes cache keys to this repository.
func (e *Engine) Namespace() string { return e.snap.Root() }

// Select runs classification and file selection for a query. It is
// total over degenerate input: an empty query or an empty tree yields
// the fallback selection, never an error.
func (e *Engine) Select(ctx context.Context, query string) (selection.Result, classify.Classification, error) {
	cls := classify.Classify(query)

	tree, err := e.snap.Tree(ctx)
	if err != nil {
		return selection.Result{}, cls, err
	}

	if strings.TrimSpace(query) == "" || len(tree) == 0 {
		files := selection.AppendAlwaysUseful(selection.Fallback(tree), tree, e.cfg.Selection.MaxBypassFiles)
		return selection.Result{Source: selection.SourceFallback, Files: files}, cls, nil
	}

	// An explicit file mention skips both the cache and the scorer.
	if files := selection.Bypass(query, tree); files != nil {
		e.log.Debug("bypass selection", logging.Fields{"files": len(files)})
		return selection.Result{Source: selection.SourceBypass, Files: files}, cls, nil
	}

	ns := e.Namespace()
	if files, ok := e.caches.Selection.Get(ns, query); ok {
		return selection.Result{Source: selection.SourceCache, Files: files}, cls, nil
	}

	v, _, _ := e.group.Do(cache.SelectionKey(ns, query), func() (interface{}, error) {
		return e.scoreAndExpand(ns, query, cls, tree), nil
	})
	return v.(selection.Result), cls, nil
}

func (e *Engine) scoreAndExpand(ns, query string, cls classify.Classification, tree []string) selection.Result {
	pruned := selection.PruneTree(tree)
	scored := selection.Score(query, cls, pruned)
	filtered := selection.Filter(scored, e.cfg.Selection.MinScore, e.cfg.Selection.MaxCandidates)

	if len(filtered) == 0 {
		files := selection.AppendAlwaysUseful(selection.Fallback(tree), tree, e.cfg.Selection.MaxBypassFiles)
		e.log.Debug("scoring empty, using fallback", logging.Fields{"files": len(files)})
		return selection.Result{Source: selection.SourceFallback, Files: files, Scored: scored}
	}

	expanded := selection.Expand(filtered, pruned)
	final := selection.AppendAlwaysUseful(expanded, tree, e.cfg.Selection.MaxFiles)

	// Only a non-empty scored selection is worth remembering; bypass and
	// fallback results are recomputed per query.
	e.caches.Selection.Set(ns, query, final)

	e.log.Debug("scored selection", logging.Fields{
		"candidates": len(scored),
		"selected":   len(final),
	})
	return selection.Result{Source: selection.SourceScored, Files: final, Scored: scored}
}

// ContextResult pairs an assembled document with its citation index.
type ContextResult struct {
	contextdoc.Result
	Index contextdoc.Index `json:"index"`
}

// BuildContext assembles the normalized, indexed context document for a
// selection. File contents come through the content cache, keyed by a
// change fingerprint so edits invalidate naturally.
func (e *Engine) BuildContext(ctx context.Context, files []string) ContextResult {
	ns := e.Namespace()

	read := func(path string) (string, bool) {
		hash, err := e.snap.Fingerprint(path)
		if err != nil {
			e.log.Warn("skipping unreadable file", logging.Fields{"path": path})
			return "", false
		}
		if text, ok := e.caches.Content.Get(ns, path, hash); ok {
			return text, true
		}
		text, err := e.snap.Content(path)
		if err != nil {
			e.log.Warn("skipping unreadable file", logging.Fields{"path": path})
			return "", false
		}
		e.caches.Content.Set(ns, path, hash, text)
		return text, true
	}

	budget := contextdoc.BudgetFor(e.cfg.Context.ContextWindow, e.cfg.Context.ReservedOverhead)
	result := contextdoc.Assemble(ctx, files, read, e.counter.Count, budget)
	result.Document = contextdoc.Normalize(result.Document)

	return ContextResult{
		Result: result,
		Index:  contextdoc.BuildIndex(result.Document),
	}
}
