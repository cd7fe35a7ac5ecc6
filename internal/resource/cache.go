package resource

import (
	"sync"

	"github.com/pixil98/go-tileworld/internal/ident"
)

// TagCache memoizes tag-to-items resolutions. Callers hold one for as long
// as they like; because the registry is immutable after load, a cached
// entry never goes stale and the cache is never invalidated.
type TagCache struct {
	mu    sync.RWMutex
	items map[ident.Id][]Item
}

// NewTagCache creates an empty cache.
func NewTagCache() *TagCache {
	return &TagCache{
		items: map[ident.Id][]Item{},
	}
}

func (c *TagCache) get(id ident.Id) ([]Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items, ok := c.items[id]
	return items, ok
}

// Len returns the number of memoized tags.
func (c *TagCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// GetItems resolves an id to the items it names. A concrete item id yields
// a fresh single-element slice, bypassing the cache. Anything else is
// treated as a tag: the full ordered item list is scanned once under the
// registry's matching predicate and the result is memoized, so repeated
// queries share one immutable slice. Callers must not mutate a returned
// tag slice.
func (m *Manager) GetItems(id ident.Id, cache *TagCache) []Item {
	if item, ok := m.registry.Items[id]; ok {
		return []Item{item}
	}

	if items, ok := cache.get(id); ok {
		return items
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()

	// Another caller may have resolved it while we waited on the lock.
	if items, ok := cache.items[id]; ok {
		return items
	}

	var items []Item
	for _, v := range m.registry.OrderedItems {
		if IdMatch(m.registry, v, id) {
			items = append(items, m.registry.Items[v])
		}
	}

	cache.items[id] = items
	return items
}
