// Package cache provides a generic LRU cache.
//
// It memoizes lookups that are repeated many times while a drawing is
// replayed, such as category resolution per layer and text extents per
// string and font.
//
//	c := cache.New[string, int](256)
//	v := c.GetOrCreate("key", func() int { return 42 })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

// Cache is a thread-safe LRU cache with a fixed capacity.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*list.Element
	order    *list.List // front is most recently used
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type item[K comparable, V any] struct {
	key   K
	value V
}

// New creates a cache holding at most capacity entries.
// If capacity <= 0, DefaultCapacity is used.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[K, V]{
		entries:  make(map[K]*list.Element),
		order:    list.New(),
		capacity: capacity,
	}
}

// lookup returns the item for key and marks it most recently used.
// Caller must hold c.mu.
func (c *Cache[K, V]) lookup(key K) (*item[K, V], bool) {
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*item[K, V]), true
}

// Get retrieves a cached value by key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.lookup(key)
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return it.value, true
}

// Set stores a value, evicting the least recently used entries when the
// cache is full.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if it, ok := c.lookup(key); ok {
		it.value = value
		return
	}
	c.insert(key, value)
}

// GetOrCreate returns the cached value or creates, stores and returns it.
// create is called with the lock held and must not use the cache.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if it, ok := c.lookup(key); ok {
		c.hits.Add(1)
		return it.value
	}
	c.misses.Add(1)
	value := create()
	c.insert(key, value)
	return value
}

// insert adds a new entry. Caller must hold c.mu.
func (c *Cache[K, V]) insert(key K, value V) {
	for c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*item[K, V]).key)
		c.evictions.Add(1)
	}
	c.entries[key] = c.order.PushFront(&item[K, V]{key: key, value: value})
}

// Delete removes an entry. It returns true if the entry was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.Remove(el)
	delete(c.entries, key)
	return true
}

// Clear removes all entries. Statistics are kept.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.order.Init()
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the maximum number of entries.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// Stats returns current cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return Stats{
		Len:       c.Len(),
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Evictions: c.evictions.Load(),
	}
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	HitRate   float64 // 0.0 to 1.0
	Evictions uint64
}
