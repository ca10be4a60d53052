// Package cache provides the in-memory read cache for account lookups.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"userhub/config"
	"userhub/internal/domain/entity"
)

const (
	defaultTTL     = 5 * time.Minute
	defaultMaxSize = 1000
)

// AccountCache maps account IDs to cached entities. Reads go through Get,
// every mutating operation on an id must Invalidate it, and bulk operations
// Clear the cache wholesale, so no stale read survives any write path.
type AccountCache struct {
	mu      sync.RWMutex
	entries map[uint64]*cachedRecord
	ttl     time.Duration
	maxSize int

	// counters
	hits   int64
	misses int64
}

type cachedRecord struct {
	account  *entity.Account
	cachedAt time.Time
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int
}

// NewAccountCache is the constructor for AccountCache.
func NewAccountCache(cfg *config.Config) *AccountCache {
	ttl := defaultTTL
	maxSize := defaultMaxSize
	if cfg != nil && cfg.Cache != nil {
		if cfg.Cache.TTL > 0 {
			ttl = cfg.Cache.TTL
		}
		if cfg.Cache.MaxSize > 0 {
			maxSize = cfg.Cache.MaxSize
		}
	}

	return &AccountCache{
		entries: make(map[uint64]*cachedRecord),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached account, reporting a miss when absent or expired.
func (c *AccountCache) Get(id uint64) (*entity.Account, bool) {
	c.mu.RLock()
	record, exists := c.entries[id]
	c.mu.RUnlock()

	if !exists || time.Since(record.cachedAt) > c.ttl {
		atomic.AddInt64(&c.misses, 1)

		return nil, false
	}

	atomic.AddInt64(&c.hits, 1)

	return record.account, true
}

// Set stores an account in the cache.
func (c *AccountCache) Set(account *entity.Account) {
	if account == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple eviction if full.
	if len(c.entries) >= c.maxSize {
		for k := range c.entries {
			delete(c.entries, k)

			break
		}
	}

	c.entries[account.ID] = &cachedRecord{account: account, cachedAt: time.Now()}
}

// Invalidate drops the cached entry for one id.
func (c *AccountCache) Invalidate(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Clear drops every cached entry.
func (c *AccountCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*cachedRecord)
}

// Len returns the number of cached accounts.
func (c *AccountCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Stats returns cache statistics.
func (c *AccountCache) Stats() Stats {
	return Stats{
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
		Size:   c.Len(),
	}
}
