package cache

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Default TTLs for the three tiers.
const (
	SelectionTTL = 24 * time.Hour
	ContentTTL   = time.Hour
	MetadataTTL  = 15 * time.Minute
)

// Queries longer than this are keyed by hash instead of the literal text.
const maxLiteralKeyLen = 128

// Service owns the selection and content tiers. The metadata tier lives
// with the snapshot provider, which instantiates its own Store.
type Service struct {
	Selection *SelectionCache
	Content   *ContentCache
}

// Options configures a Service.
type Options struct {
	Clock        Clock
	SelectionTTL time.Duration
	ContentTTL   time.Duration
}

// NewService builds the shared cache tiers.
func NewService(opts Options) (*Service, error) {
	if opts.SelectionTTL <= 0 {
		opts.SelectionTTL = SelectionTTL
	}
	if opts.ContentTTL <= 0 {
		opts.ContentTTL = ContentTTL
	}

	content, err := newContentCache(opts.Clock, opts.ContentTTL)
	if err != nil {
		return nil, err
	}

	return &Service{
		Selection: &SelectionCache{
			store: New[[]string](opts.Clock),
			ttl:   opts.SelectionTTL,
		},
		Content: content,
	}, nil
}

// SelectionKey builds the selection-tier key: namespace plus the
// lower-cased, trimmed query. Long queries are replaced by an xxh3 digest
// to bound key size.
func SelectionKey(namespace, query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if len(normalized) > maxLiteralKeyLen {
		normalized = fmt.Sprintf("q64:%016x", xxh3.HashString(normalized))
	}
	return namespace + ":" + normalized
}

// ContentKey builds the content-tier key. The hash makes stale entries
// unreachable: a changed file produces a different key.
func ContentKey(namespace, path, contentHash string) string {
	return namespace + ":" + path + ":" + contentHash
}

// Fingerprint hashes arbitrary bytes. The content tier stores it next to
// each body and verifies it on read.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:16])
}

// SelectionCache maps (namespace, normalized query) to a selected path list.
type SelectionCache struct {
	store *Store[[]string]
	ttl   time.Duration
}

// Get returns the cached selection for a query.
func (c *SelectionCache) Get(namespace, query string) ([]string, bool) {
	return c.store.Get(SelectionKey(namespace, query))
}

// Set stores a selection. Empty selections are not cached; a later query
// deserves a fresh scoring pass.
func (c *SelectionCache) Set(namespace, query string, files []string) {
	if len(files) == 0 {
		return
	}
	c.store.Set(SelectionKey(namespace, query), files, c.ttl)
}

// Store exposes the underlying store for reaping.
func (c *SelectionCache) Store() *Store[[]string] { return c.store }

// contentEntry is one cached body: zstd-compressed text plus the
// Fingerprint of the original text for an integrity check on read.
type contentEntry struct {
	sum  string
	body []byte
}

// ContentCache maps (namespace, path, content hash) to file text. Bodies
// are held zstd-compressed; repository files compress well and the cache
// is process-lifetime state.
type ContentCache struct {
	store *Store[contentEntry]
	ttl   time.Duration
	enc   *zstd.Encoder // EncodeAll/DecodeAll are safe for concurrent use
	dec   *zstd.Decoder
}

func newContentCache(clock Clock, ttl time.Duration) (*ContentCache, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &ContentCache{
		store: New[contentEntry](clock),
		ttl:   ttl,
		enc:   enc,
		dec:   dec,
	}, nil
}

// Get returns the cached text for a (path, hash) pair. An entry that
// fails decompression or the integrity check is evicted and reported as
// a miss.
func (c *ContentCache) Get(namespace, path, contentHash string) (string, bool) {
	e, ok := c.store.Get(ContentKey(namespace, path, contentHash))
	if !ok {
		return "", false
	}
	raw, err := c.dec.DecodeAll(e.body, nil)
	if err != nil || Fingerprint(raw) != e.sum {
		c.store.Delete(ContentKey(namespace, path, contentHash))
		return "", false
	}
	return string(raw), true
}

// Set stores file text under its content hash.
func (c *ContentCache) Set(namespace, path, contentHash, text string) {
	entry := contentEntry{
		sum:  Fingerprint([]byte(text)),
		body: c.enc.EncodeAll([]byte(text), nil),
	}
	c.store.Set(ContentKey(namespace, path, contentHash), entry, c.ttl)
}

// Store exposes the underlying store for reaping.
func (c *ContentCache) Store() *Store[contentEntry] { return c.store }
