package pack

import (
	"sync"

	"ccdd-pack/internal/structure"
)

type cacheKey struct {
	structure string
	target    int
}

// Cache memoizes pack ranges by structure name and target index. The caller
// owns it and must Reset it (or drop it) when a structure's members change.
type Cache struct {
	mu     sync.Mutex
	ranges map[cacheKey]Range
	hits   int
	misses int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{ranges: make(map[cacheKey]Range)}
}

// Reset drops every cached range.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ranges = make(map[cacheKey]Range)
	c.hits, c.misses = 0, 0
}

// Forget drops the ranges cached for one structure.
func (c *Cache) Forget(structureName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.ranges {
		if k.structure == structureName {
			delete(c.ranges, k)
		}
	}
}

// Stats returns the hit and miss counts since the last Reset.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache) get(k cacheKey) (Range, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.ranges[k]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return r, ok
}

func (c *Cache) put(k cacheKey, r Range) {
	c.mu.Lock()
	c.ranges[k] = r
	c.mu.Unlock()
}

// CachedPackRange is PackRange backed by c. Errors are not cached. A nil
// cache disables memoization.
func (r *Resolver) CachedPackRange(c *Cache, list structure.MemberList, target int) (Range, error) {
	if c == nil {
		return r.PackRange(list, target)
	}
	k := cacheKey{structure: list.Structure, target: target}
	if rng, ok := c.get(k); ok {
		return rng, nil
	}
	rng, err := r.PackRange(list, target)
	if err != nil {
		return Range{}, err
	}
	c.put(k, rng)
	return rng, nil
}
