package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/diegoalvesdg/CineList-Projeto/internal/schema"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DocumentCache is a thread-safe LRU of decoded movie collections keyed by
// the digest of their persisted bytes. Entries are copied on the way in and
// out so callers may mutate what they get.
type DocumentCache struct {
	entries *lru.Cache[string, []schema.Movie]
}

// NewDocumentCache creates a cache holding up to capacity documents.
// A capacity of zero or less disables caching.
func NewDocumentCache(capacity int) (*DocumentCache, error) {
	if capacity <= 0 {
		return &DocumentCache{}, nil
	}

	entries, err := lru.New[string, []schema.Movie](capacity)
	if err != nil {
		return nil, err
	}
	return &DocumentCache{entries: entries}, nil
}

// Get returns a copy of the collection decoded from raw, if cached.
func (c *DocumentCache) Get(raw []byte) ([]schema.Movie, bool) {
	if c == nil || c.entries == nil {
		return nil, false
	}

	movies, ok := c.entries.Get(digest(raw))
	if !ok {
		return nil, false
	}
	return schema.CloneAll(movies), true
}

// Add records movies as the decoded form of raw.
func (c *DocumentCache) Add(raw []byte, movies []schema.Movie) {
	if c == nil || c.entries == nil {
		return
	}
	c.entries.Add(digest(raw), schema.CloneAll(movies))
}

// Len returns the number of cached documents
func (c *DocumentCache) Len() int {
	if c == nil || c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Purge drops every entry
func (c *DocumentCache) Purge() {
	if c == nil || c.entries == nil {
		return
	}
	c.entries.Purge()
}

func digest(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
