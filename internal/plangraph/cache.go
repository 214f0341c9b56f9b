package plangraph

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/joeycumines/go-strips/internal/strips"
)

// DefaultCacheSize is the default maximum number of levels held by a Cache.
const DefaultCacheSize = 4096

// Cache is a thread-safe LRU cache of plan graph levels, keyed by the state
// a level was expanded from.
//
// A level is only meaningful relative to the action set that produced it, so
// a Cache is bound to one Domain for its lifetime. Own one per planning
// session.
type Cache struct {
	mu        sync.Mutex
	domain    *strips.Domain
	entries   map[string]*list.Element
	lru       *list.List
	maxSize   int
	hitCount  int64
	missCount int64
}

// level is the result of expanding one state: the ground actions the
// expansion used and the relaxed state they produce.
type level struct {
	actions []*strips.Action
	next    strips.State
}

type cacheEntry struct {
	key   string
	level level
}

// NewCache creates a cache for levels of d holding at most maxSize entries.
func NewCache(d *strips.Domain, maxSize int) *Cache {
	if maxSize < 1 {
		maxSize = DefaultCacheSize
	}
	return &Cache{
		domain:  d,
		entries: make(map[string]*list.Element),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

// Domain returns the domain the cache is bound to.
func (c *Cache) Domain() *strips.Domain { return c.domain }

func (c *Cache) get(key string) (level, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		c.missCount++
		return level{}, false
	}
	c.hitCount++
	if elem != c.lru.Front() {
		c.lru.MoveToFront(elem)
	}
	return elem.Value.(*cacheEntry).level, true
}

func (c *Cache) put(key string, l level) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).level = l
		return
	}
	c.entries[key] = c.lru.PushFront(&cacheEntry{key: key, level: l})
	c.evict()
}

// evict drops least recently used entries until within capacity. The caller
// must hold mu.
func (c *Cache) evict() {
	for c.lru.Len() > c.maxSize {
		elem := c.lru.Back()
		delete(c.entries, elem.Value.(*cacheEntry).key)
		c.lru.Remove(elem)
	}
}

// Resize changes the capacity, evicting immediately if it shrinks.
func (c *Cache) Resize(maxSize int) {
	if maxSize < 1 {
		maxSize = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxSize = maxSize
	c.evict()
}

// Clear removes all entries. Hit and miss counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.lru.Init()
}

// Len returns the number of cached levels.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns the current size and the lookup counters.
func (c *Cache) Stats() (size int, hits, misses int64, ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if total := c.hitCount + c.missCount; total > 0 {
		ratio = float64(c.hitCount) / float64(total)
	}
	return c.lru.Len(), c.hitCount, c.missCount, ratio
}

func (c *Cache) String() string {
	size, hits, misses, ratio := c.Stats()
	return fmt.Sprintf("plangraph.Cache{domain=%s, size=%d, hits=%d, misses=%d, hit_ratio=%.2f%%}",
		c.domain.Name(), size, hits, misses, ratio*100)
}
