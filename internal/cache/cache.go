// Package cache is the fetch-and-invalidate layer in front of account and
// transaction list queries. Entries are keyed by entity type plus account id
// and live until a mutation invalidates them; there is no TTL or eviction.
package cache

import (
	"context"
	"sync"
)

// Entity names used as cache key prefixes.
const (
	EntityAccounts     = "accounts"
	EntityTransactions = "transactions"
)

// Key identifies one cached list. AccountID is empty for account-level lists.
type Key struct {
	Entity    string
	AccountID string
}

// Loader fetches fresh data on a cache miss.
type Loader func(ctx context.Context) (any, error)

// Cache is a mutex-guarded map of list results.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]any
}

func New() *Cache {
	return &Cache{entries: make(map[Key]any)}
}

// Fetch returns the cached value for key, or runs the loader and caches its
// result. Loader errors are returned without poisoning the cache.
func (c *Cache) Fetch(ctx context.Context, key Key, load Loader) (any, error) {
	c.mu.Lock()
	cached, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	fresh, err := load(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = fresh
	c.mu.Unlock()
	return fresh, nil
}

// Invalidate drops one cached entry.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidateEntity drops every entry for an entity type, regardless of the
// account it was scoped to.
func (c *Cache) InvalidateEntity(entity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.Entity == entity {
			delete(c.entries, key)
		}
	}
}
