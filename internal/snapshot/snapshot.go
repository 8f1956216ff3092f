// Package snapshot reads the repository under analysis: the file tree,
// file contents, change fingerprints, and cached repo metadata.
//
// Tree paths are always relative to the repo root and use forward
// slashes, on every platform. The walk honors the root .gitignore and
// always skips the .git directory itself.
package snapshot

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/zeebo/xxh3"

	"repolens/internal/cache"
	"repolens/internal/errors"
	"repolens/internal/logging"
)

// Provider reads one repository root.
type Provider struct {
	root    string
	matcher *ignore.GitIgnore
	log     *logging.Logger
	meta    *cache.Store[Metadata]
	metaTTL time.Duration
	clock   cache.Clock
}

// Options configures a Provider. Zero values pick sane defaults.
type Options struct {
	Logger      *logging.Logger
	Clock       cache.Clock // injected in tests, SystemClock otherwise
	MetadataTTL time.Duration
}

// DefaultMetadataTTL bounds how stale cached repo metadata may get.
const DefaultMetadataTTL = 15 * time.Minute

// New creates a Provider for root. The root must be an existing
// directory; a .gitignore there is compiled if present.
func New(root string, opts Options) (*Provider, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.New(errors.RepoNotFound, fmt.Sprintf("resolving %s", root), err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.RepoNotFound, fmt.Sprintf("%s is not a directory", abs), err)
	}

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	ttl := opts.MetadataTTL
	if ttl <= 0 {
		ttl = DefaultMetadataTTL
	}
	clock := opts.Clock
	if clock == nil {
		clock = cache.SystemClock{}
	}

	p := &Provider{
		root:    abs,
		log:     log.With("snapshot"),
		meta:    cache.New[Metadata](clock),
		metaTTL: ttl,
		clock:   clock,
	}

	if matcher, err := ignore.CompileIgnoreFile(filepath.Join(abs, ".gitignore")); err == nil {
		p.matcher = matcher
	}
	return p, nil
}

// Root returns the absolute repository root.
func (p *Provider) Root() string { return p.root }

// Tree walks the repository and returns every file path, sorted,
// relative to the root with forward slashes. Gitignored paths and the
// .git directory are excluded.
func (p *Provider) Tree(ctx context.Context) ([]string, error) {
	var tree []string

	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A vanished or unreadable entry should not sink the walk.
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, relErr := filepath.Rel(p.root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			if p.matcher != nil && p.matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if p.matcher != nil && p.matcher.MatchesPath(rel) {
			return nil
		}
		tree = append(tree, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(tree)
	p.log.Debug("tree walked", logging.Fields{"files": len(tree)})
	return tree, nil
}

// Content returns the contents of the file at the tree-relative path.
func (p *Provider) Content(path string) (string, error) {
	abs, err := p.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", errors.New(errors.FileUnreadable, fmt.Sprintf("reading %s", path), err)
	}
	return string(data), nil
}

// Fingerprint returns a cheap change token for the file: it changes
// whenever size or mtime change, without reading the content. Used as
// the hash component of content-cache keys.
func (p *Provider) Fingerprint(path string) (string, error) {
	abs, err := p.resolve(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.New(errors.FileUnreadable, fmt.Sprintf("stat %s", path), err)
	}
	sum := xxh3.HashString(fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano()))
	return fmt.Sprintf("%016x", sum), nil
}

// resolve maps a tree-relative path onto the filesystem, rejecting
// anything that would escape the root.
func (p *Provider) resolve(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.FileUnreadable, "empty path", nil)
	}
	native := filepath.FromSlash(path)
	if filepath.IsAbs(native) || !filepath.IsLocal(native) {
		return "", errors.New(errors.FileUnreadable, fmt.Sprintf("path %s escapes repository root", path), nil)
	}
	abs := filepath.Join(p.root, native)
	if !strings.HasPrefix(abs, p.root+string(filepath.Separator)) {
		return "", errors.New(errors.FileUnreadable, fmt.Sprintf("path %s escapes repository root", path), nil)
	}
	return abs, nil
}
