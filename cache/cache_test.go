package cache

import (
	"strconv"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	c := New[string, int](100)
	if c.Capacity() != 100 {
		t.Errorf("expected capacity 100, got %d", c.Capacity())
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
	if d := New[string, int](0); d.Capacity() != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, d.Capacity())
	}
}

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)
	c.Set("key1", 42)

	val, ok := c.Get("key1")
	if !ok || val != 42 {
		t.Errorf("Get(key1) = %d, %v; want 42, true", val, ok)
	}
	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected nonexistent key to not exist")
	}

	c.Set("key1", 7)
	if val, _ := c.Get("key1"); val != 7 {
		t.Errorf("expected updated value 7, got %d", val)
	}
	if c.Len() != 1 {
		t.Errorf("update should not add an entry, got %d", c.Len())
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](10)
	createCalled := 0

	val := c.GetOrCreate("key1", func() int {
		createCalled++
		return 100
	})
	if val != 100 || createCalled != 1 {
		t.Fatalf("first GetOrCreate = %d (create called %d times)", val, createCalled)
	}

	val = c.GetOrCreate("key1", func() int {
		createCalled++
		return 200
	})
	if val != 100 {
		t.Errorf("expected 100 (cached), got %d", val)
	}
	if createCalled != 1 {
		t.Errorf("expected create still called once, got %d", createCalled)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch "a" so that "b" becomes the oldest.
	c.Get("a")
	c.Set("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected %s to survive eviction", k)
		}
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("expected 1 eviction, got %d", got)
	}
}

func TestCacheDeleteClear(t *testing.T) {
	c := New[string, int](10)
	c.Set("key1", 42)

	if !c.Delete("key1") {
		t.Error("expected Delete to return true for existing key")
	}
	if c.Delete("key1") {
		t.Error("expected Delete to return false for missing key")
	}

	for i := range 5 {
		c.Set(strconv.Itoa(i), i)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d", c.Len())
	}
	// The list must be usable after Clear.
	c.Set("x", 1)
	if v, ok := c.Get("x"); !ok || v != 1 {
		t.Error("cache unusable after Clear")
	}
}

func TestCacheStats(t *testing.T) {
	c := New[int, int](10)
	c.Set(1, 1)
	c.Get(1)
	c.Get(1)
	c.Get(2)

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 2/1", s.Hits, s.Misses)
	}
	if s.HitRate < 0.66 || s.HitRate > 0.67 {
		t.Errorf("hit rate = %v, want ~0.667", s.HitRate)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[int, int](64)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := range 200 {
				k := (g*200 + i) % 100
				c.GetOrCreate(k, func() int { return k * 2 })
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 64 {
		t.Errorf("cache exceeded capacity: %d", c.Len())
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[string, int](1000)
	for i := range 1000 {
		c.Set(strconv.Itoa(i), i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(strconv.Itoa(i % 1000))
	}
}
