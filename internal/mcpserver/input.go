package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/oasdecode/internal/fileutil"
	"github.com/erraggy/oasdecode/normalizer"
	"github.com/erraggy/oasdecode/schema"
)

// schemaInput represents the two ways a schema source can be provided to a tool.
// Exactly one of File or Content must be set.
type schemaInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI or module file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI document or module content (JSON or YAML)"`
	Type    string `json:"type,omitempty"    jsonschema:"Source type: yaml, json or custom. Inferred from the file extension; inline content defaults to yaml"`
}

// cacheEntry holds a normalized document with LRU ordering and TTL expiry.
type cacheEntry struct {
	doc       *schema.Document
	insertAt  time.Time
	expiresAt time.Time
}

// docCacheStore provides a session-scoped cache for normalized documents.
// File inputs are keyed by (absolutePath, modTime, type). Content inputs
// are keyed by a SHA-256 hash of type and content. Referenced files are not
// tracked, so editing one waits for the TTL.
type docCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var docCache = &docCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached document or nil. Expired entries are lazily removed.
func (c *docCacheStore) get(key string) *schema.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.doc
	}
	return nil
}

// putWithTTL stores a document, evicting the oldest entry if at capacity.
func (c *docCacheStore) putWithTTL(key string, doc *schema.Document, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{doc: doc, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *docCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes expired entries.
// Only the first call spawns a sweeper. It stops when ctx is cancelled.
func (c *docCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *docCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *docCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// kind returns the source type of the input.
func (s schemaInput) kind() (normalizer.Kind, error) {
	if s.Type != "" {
		return normalizer.ParseKind(s.Type)
	}
	if s.Content != "" {
		return normalizer.KindYAML, nil
	}
	kind, ok := normalizer.KindFromPath(s.File)
	if !ok {
		return "", fmt.Errorf("cannot infer the schema type of %s; set type to yaml, json or custom", s.File)
	}
	return kind, nil
}

// cacheKey creates a cache key for the input, or "" when it cannot be cached.
func (s schemaInput) cacheKey(kind normalizer.Kind) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%s:%d", kind, absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(string(kind) + "\x00" + s.Content))
		return "content:" + hex.EncodeToString(h[:])
	default:
		return ""
	}
}

// resolve normalizes the schema from whichever input was provided, using
// the cache for both input kinds.
func (s schemaInput) resolve(ctx context.Context) (*schema.Document, error) {
	if (s.File == "") == (s.Content == "") {
		return nil, fmt.Errorf("exactly one of file or content must be provided")
	}
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASDECODE_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}
	kind, err := s.kind()
	if err != nil {
		return nil, err
	}

	var key string
	ttl := cfg.CacheFileTTL
	if s.Content != "" {
		ttl = cfg.CacheContentTTL
	}
	if cfg.CacheEnabled {
		key = s.cacheKey(kind)
	}
	if key != "" {
		if cached := docCache.get(key); cached != nil {
			return cached, nil
		}
	}

	path := s.File
	if s.Content != "" {
		dir, err := os.MkdirTemp("", "oasdecode-mcp-")
		if err != nil {
			return nil, err
		}
		defer func() { _ = os.RemoveAll(dir) }()
		path = filepath.Join(dir, "schema"+extension(kind))
		if err := os.WriteFile(path, []byte(s.Content), fileutil.OwnerReadWrite); err != nil {
			return nil, err
		}
	}

	doc, err := normalizer.Normalize(ctx, path, kind,
		normalizer.WithLogger(normalizer.NewSlogAdapter(slog.Default())),
	)
	if err != nil {
		return nil, err
	}

	if key != "" {
		docCache.putWithTTL(key, doc, ttl)
	}
	return doc, nil
}

func extension(kind normalizer.Kind) string {
	if kind == normalizer.KindJSON {
		return ".json"
	}
	return ".yaml"
}
