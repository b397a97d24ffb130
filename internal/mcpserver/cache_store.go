package mcpserver

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/oashttpguard/guardcache"
	"github.com/erraggy/oashttpguard/oastree"
)

// cacheMeta tracks LRU and TTL bookkeeping for one guardcache entry;
// insertAt is refreshed on every successful get, so eviction drops the
// least recently used entry. guardcache.Cache itself holds no eviction policy
// (spec.md §9 leaves that to the embedder); specCacheStore is that policy.
type cacheMeta struct {
	insertAt  time.Time
	expiresAt time.Time
}

// specCacheStore is a session-scoped cache of resolved specs, layering
// size-bounded LRU eviction and per-input-kind TTLs on top of a
// [guardcache.Cache]. File, URL, and content inputs share one cache but
// expire on different schedules (cfg.CacheFileTTL, cfg.CacheURLTTL,
// cfg.CacheContentTTL) since a file on disk and a one-off inline document
// go stale at different rates.
type specCacheStore struct {
	cache *guardcache.Cache

	mu             sync.Mutex
	meta           map[string]*cacheMeta
	maxSize        int
	sweeperStarted atomic.Bool
}

func newSpecCacheStore(maxSize int) *specCacheStore {
	return &specCacheStore{
		cache:   guardcache.New(),
		meta:    make(map[string]*cacheMeta),
		maxSize: maxSize,
	}
}

var specCache = newSpecCacheStore(cfg.CacheMaxSize)

// get returns the cached Traverser for key, or nil if absent or expired.
// An expired entry is evicted as a side effect of the lookup.
func (c *specCacheStore) get(key string) *oastree.Traverser {
	c.mu.Lock()
	m, ok := c.meta[key]
	if !ok {
		c.mu.Unlock()
		return nil
	}
	if !m.expiresAt.IsZero() && time.Now().After(m.expiresAt) {
		delete(c.meta, key)
		c.mu.Unlock()
		_ = c.cache.Remove(key)
		return nil
	}
	m.insertAt = time.Now() // touch for LRU
	c.mu.Unlock()

	tr, err := c.cache.Get(key)
	if err != nil {
		return nil
	}
	return tr
}

// putWithTTL stores tr under key with the given ttl, evicting the oldest
// entry first if the store is already at capacity.
func (c *specCacheStore) putWithTTL(key string, tr *oastree.Traverser, ttl time.Duration) {
	now := time.Now()

	c.mu.Lock()
	if _, exists := c.meta[key]; !exists && len(c.meta) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, m := range c.meta {
			if oldestKey == "" || m.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = m.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.meta, oldestKey)
			c.mu.Unlock()
			_ = c.cache.Remove(oldestKey)
			c.mu.Lock()
		}
	}
	c.meta[key] = &cacheMeta{insertAt: now, expiresAt: now.Add(ttl)}
	c.mu.Unlock()

	if err := c.cache.Insert(key, tr); err != nil {
		_ = c.cache.Replace(key, tr)
	}
}

// sweep removes every expired entry.
func (c *specCacheStore) sweep() {
	now := time.Now()
	c.mu.Lock()
	var expired []string
	for k, m := range c.meta {
		if !m.expiresAt.IsZero() && now.After(m.expiresAt) {
			expired = append(expired, k)
			delete(c.meta, k)
		}
	}
	c.mu.Unlock()
	for _, k := range expired {
		_ = c.cache.Remove(k)
	}
}

// startSweeper launches a background goroutine that periodically removes
// expired entries. Safe to call multiple times; only the first call spawns
// a sweeper. It stops when ctx is cancelled.
func (c *specCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	var sweeping atomic.Bool
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !sweeping.CompareAndSwap(false, true) {
					continue
				}
				c.sweep()
				sweeping.Store(false)
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *specCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta = make(map[string]*cacheMeta)
	c.cache = guardcache.New()
}

// size returns the number of cached entries.
func (c *specCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.meta)
}
