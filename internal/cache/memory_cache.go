// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cache

import (
	"context"
	"path"
	"sync"
	"sync/atomic"
	"time"
)

type cacheItem struct {
	value      []byte
	expiration time.Time
	storedAt   time.Time
}

func (i *cacheItem) expired(now time.Time) bool {
	return now.After(i.expiration)
}

// itemOverhead approximates per-entry bookkeeping in bytes.
const itemOverhead = 64

// MemoryCache implements Cache with a mutex-guarded map and a background sweeper.
type MemoryCache struct {
	mu            sync.Mutex
	items         map[string]*cacheItem
	maxMemory     int64
	currentMemory int64

	hits      int64
	misses    int64
	evictions int64

	stop      chan struct{}
	closeOnce sync.Once
	closed    bool
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(config *CacheConfig) *MemoryCache {
	if config == nil {
		config = DefaultCacheConfig()
	}

	c := &MemoryCache{
		items:     make(map[string]*cacheItem),
		maxMemory: config.MaxMemory,
		stop:      make(chan struct{}),
	}

	interval := config.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}
	go c.sweep(interval)

	return c
}

// Get retrieves a value from cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrCacheDisabled
	}

	item, ok := c.items[key]
	if !ok || item.expired(time.Now()) {
		if ok {
			c.removeLocked(key, item)
		}
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrKeyNotFound
	}

	atomic.AddInt64(&c.hits, 1)
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

// Set stores a value in cache with expiration
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheDisabled
	}

	if old, ok := c.items[key]; ok {
		c.removeLocked(key, old)
	}

	now := time.Now()
	item := &cacheItem{
		value:      append([]byte(nil), value...),
		expiration: now.Add(ttl),
		storedAt:   now,
	}
	c.items[key] = item
	c.currentMemory += itemSize(key, item)

	c.evictLocked(now)
	return nil
}

// Delete removes a value from cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[key]; ok {
		c.removeLocked(key, item)
	}
	return nil
}

// DeletePattern removes all keys matching the glob pattern
func (c *MemoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, item := range c.items {
		if matched, _ := path.Match(pattern, key); matched {
			c.removeLocked(key, item)
		}
	}
	return nil
}

// Close stops the sweeper and drops every entry.
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stop)
		c.mu.Lock()
		c.items = make(map[string]*cacheItem)
		c.currentMemory = 0
		c.closed = true
		c.mu.Unlock()
	})
	return nil
}

// Stats returns cache statistics
func (c *MemoryCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var active int64
	for _, item := range c.items {
		if !item.expired(now) {
			active++
		}
	}

	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)
	return CacheStats{
		Hits:        hits,
		Misses:      misses,
		HitRatio:    hitRatio(hits, misses),
		Keys:        active,
		MemoryUsage: c.currentMemory,
		Evictions:   atomic.LoadInt64(&c.evictions),
	}
}

func (c *MemoryCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, item := range c.items {
				if item.expired(now) {
					c.removeLocked(key, item)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

// evictLocked drops expired entries, then the oldest ones, until usage fits maxMemory.
func (c *MemoryCache) evictLocked(now time.Time) {
	if c.maxMemory <= 0 || c.currentMemory <= c.maxMemory {
		return
	}

	for key, item := range c.items {
		if item.expired(now) {
			c.removeLocked(key, item)
			atomic.AddInt64(&c.evictions, 1)
		}
	}

	for c.currentMemory > c.maxMemory && len(c.items) > 0 {
		var oldestKey string
		var oldest *cacheItem
		for key, item := range c.items {
			if oldest == nil || item.storedAt.Before(oldest.storedAt) {
				oldestKey, oldest = key, item
			}
		}
		c.removeLocked(oldestKey, oldest)
		atomic.AddInt64(&c.evictions, 1)
	}
}

func (c *MemoryCache) removeLocked(key string, item *cacheItem) {
	delete(c.items, key)
	c.currentMemory -= itemSize(key, item)
}

func itemSize(key string, item *cacheItem) int64 {
	return int64(len(key) + len(item.value) + itemOverhead)
}
