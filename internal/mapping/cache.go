package mapping

import (
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MatcherCache is a bounded LRU cache of compiled matchers keyed by trimmed
// rule text. A stored nil is the known-invalid sentinel: the rule already
// failed safety analysis or compilation and is never re-analyzed for the
// lifetime of the cache. Inserting past capacity evicts the least-recently
// used entry. Safe for concurrent use.
type MatcherCache struct {
	entries *lru.Cache[string, *regexp.Regexp]
}

// NewMatcherCache returns a cache holding at most capacity entries.
// Non-positive capacities fall back to DefaultMatcherCacheSize.
func NewMatcherCache(capacity int) *MatcherCache {
	if capacity <= 0 {
		capacity = DefaultMatcherCacheSize
	}
	// lru.New only fails on non-positive sizes, which the clamp rules out.
	entries, _ := lru.New[string, *regexp.Regexp](capacity)
	return &MatcherCache{entries: entries}
}

// Get returns the stored matcher and whether the key is present, refreshing
// its recency. A (nil, true) result means "present but known invalid", which
// callers must treat differently from an absent key.
func (c *MatcherCache) Get(key string) (*regexp.Regexp, bool) {
	return c.entries.Get(key)
}

// Set stores or replaces the matcher for key, refreshing its recency and
// evicting the least-recently-used entry if the cache is full.
func (c *MatcherCache) Set(key string, re *regexp.Regexp) {
	c.entries.Add(key, re)
}

// Clear empties the cache unconditionally.
func (c *MatcherCache) Clear() {
	c.entries.Purge()
}

// Len returns the current number of cached entries.
func (c *MatcherCache) Len() int {
	return c.entries.Len()
}
