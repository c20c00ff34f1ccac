// Package memory implements the bounded in-process tier of the cache.
package memory

import (
	"container/list"
	"sync"

	"go.trai.ch/modelcache/internal/core/domain"
	"go.trai.ch/modelcache/internal/core/ports"
)

var _ ports.MemoryStore = (*LRU)(nil)

type entry struct {
	key   domain.CacheKey
	value any
	size  int64
}

// LRU is a least-recently-used store bounded by the summed approximate size of its entries.
// The front of the list is the most recently used entry.
type LRU struct {
	mu       sync.Mutex
	budget   int64
	resident int64
	order    *list.List
	items    map[domain.CacheKey]*list.Element
}

// NewLRU creates an LRU with the given byte budget. A budget of zero keeps at most one entry.
func NewLRU(budget int64) *LRU {
	return &LRU{
		budget: max(budget, 0),
		order:  list.New(),
		items:  make(map[domain.CacheKey]*list.Element),
	}
}

// Get returns the value for key and marks it most recently used.
func (c *LRU) Get(key domain.CacheKey) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*entry).value, true
}

// Put inserts or replaces key as the most recently used entry, then evicts
// from the back until the budget holds. The inserted entry itself is never
// evicted, so a single entry larger than the budget stays resident alone.
func (c *LRU) Put(key domain.CacheKey, value any, size int64) int {
	size = max(size, 0)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry)
		c.resident += size - e.size
		e.value = value
		e.size = size
		c.order.MoveToFront(elem)
	} else {
		c.items[key] = c.order.PushFront(&entry{key: key, value: value, size: size})
		c.resident += size
	}

	evicted := 0
	for c.resident > c.budget && c.order.Len() > 1 {
		c.removeElement(c.order.Back())
		evicted++
	}
	return evicted
}

// Evict removes key and reports whether it was present.
func (c *LRU) Evict(key domain.CacheKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(elem)
	return true
}

// Clear drops every entry.
func (c *LRU) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.order.Len()
	c.order.Init()
	c.items = make(map[domain.CacheKey]*list.Element)
	c.resident = 0
	return n
}

// Len returns the number of resident entries.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// ResidentBytes returns the summed size of resident entries.
func (c *LRU) ResidentBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resident
}

// Budget returns the configured byte budget.
func (c *LRU) Budget() int64 {
	return c.budget
}

// Keys returns resident keys from most to least recently used.
func (c *LRU) Keys() []domain.CacheKey {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]domain.CacheKey, 0, c.order.Len())
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(*entry).key)
	}
	return keys
}

func (c *LRU) removeElement(elem *list.Element) {
	e := c.order.Remove(elem).(*entry)
	delete(c.items, e.key)
	c.resident -= e.size
}
