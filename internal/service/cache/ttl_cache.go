package cache

import (
	"sync"
	"time"
)

const defaultMaxEntries = 4096

type entry struct {
	v   any
	exp time.Time
}

// TTLCache is an in-process cache with per-key TTL and a bounded entry
// count. When full it drops expired entries first, then arbitrary ones.
type TTLCache struct {
	mu         sync.RWMutex
	m          map[string]entry
	maxEntries int
}

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]entry), maxEntries: defaultMaxEntries}
}

// NewTTLCacheSize creates a cache holding at most max entries.
func NewTTLCacheSize(max int) *TTLCache {
	if max <= 0 {
		max = defaultMaxEntries
	}
	return &TTLCache{m: make(map[string]entry), maxEntries: max}
}

func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.v, true
}

func (c *TTLCache) Set(key string, v any, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	if _, exists := c.m[key]; !exists && len(c.m) >= c.maxEntries {
		c.evictLocked()
	}
	c.m[key] = entry{v: v, exp: exp}
	c.mu.Unlock()
}

// evictLocked frees at least one slot. Expired entries go first; if none
// are expired an arbitrary entry is dropped.
func (c *TTLCache) evictLocked() {
	now := time.Now()
	freed := false
	for k, e := range c.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(c.m, k)
			freed = true
		}
	}
	if freed {
		return
	}
	for k := range c.m {
		delete(c.m, k)
		return
	}
}

// Implement BytesCache
func (c *TTLCache) GetBytes(key string) ([]byte, bool, error) {
	if v, ok := c.Get(key); ok {
		if b, ok2 := v.([]byte); ok2 {
			return b, true, nil
		}
		return nil, false, nil
	}
	return nil, false, nil
}

func (c *TTLCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	c.Set(key, value, ttl)
	return nil
}
