package session

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cumulus13/gsearch/internal/google"
)

// pageCache holds fetched pages for the lifetime of a session. Capacity is
// the API's page cap, so within one session nothing is ever evicted: a page
// fetched once is served from memory forever after.
type pageCache struct {
	cache *lru.Cache[int, []google.Result]
}

func newPageCache() *pageCache {
	// lru.New only fails for a non-positive size.
	c, _ := lru.New[int, []google.Result](MaxPages)
	return &pageCache{cache: c}
}

// Get retrieves a cached page by number.
// Returns the items and true if present, nil and false otherwise.
func (c *pageCache) Get(page int) ([]google.Result, bool) {
	return c.cache.Get(page)
}

// Put stores a fetched page under its number.
func (c *pageCache) Put(page int, items []google.Result) {
	c.cache.Add(page, items)
}

// Len returns the number of cached pages.
func (c *pageCache) Len() int {
	return c.cache.Len()
}
