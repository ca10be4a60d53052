package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub/config"
	"userhub/internal/domain/entity"
)

func newTestCache(ttl time.Duration, maxSize int) *AccountCache {
	return NewAccountCache(&config.Config{
		Cache: &config.CacheConfig{TTL: ttl, MaxSize: maxSize},
	})
}

func TestAccountCache_SetAndGet(t *testing.T) {
	c := newTestCache(time.Minute, 10)

	c.Set(&entity.Account{ID: 1, Username: "alice"})

	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)

	_, ok = c.Get(2)
	assert.False(t, ok)
}

func TestAccountCache_Expiry(t *testing.T) {
	c := newTestCache(10*time.Millisecond, 10)

	c.Set(&entity.Account{ID: 1, Username: "alice"})
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get(1)
	assert.False(t, ok)
}

func TestAccountCache_Invalidate(t *testing.T) {
	c := newTestCache(time.Minute, 10)

	c.Set(&entity.Account{ID: 1, Username: "alice"})
	c.Invalidate(1)

	_, ok := c.Get(1)
	assert.False(t, ok)
}

func TestAccountCache_Clear(t *testing.T) {
	c := newTestCache(time.Minute, 10)

	c.Set(&entity.Account{ID: 1, Username: "alice"})
	c.Set(&entity.Account{ID: 2, Username: "bob"})
	c.Clear()

	assert.Equal(t, 0, c.Len())
}

func TestAccountCache_EvictsWhenFull(t *testing.T) {
	c := newTestCache(time.Minute, 2)

	c.Set(&entity.Account{ID: 1, Username: "alice"})
	c.Set(&entity.Account{ID: 2, Username: "bob"})
	c.Set(&entity.Account{ID: 3, Username: "carol"})

	assert.LessOrEqual(t, c.Len(), 2)

	_, ok := c.Get(3)
	assert.True(t, ok)
}

func TestAccountCache_Stats(t *testing.T) {
	c := newTestCache(time.Minute, 10)

	c.Set(&entity.Account{ID: 1, Username: "alice"})
	c.Get(1)
	c.Get(1)
	c.Get(99)

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestAccountCache_NilAccountIgnored(t *testing.T) {
	c := newTestCache(time.Minute, 10)

	c.Set(nil)
	assert.Equal(t, 0, c.Len())
}

func TestAccountCache_DefaultsWithoutConfig(t *testing.T) {
	c := NewAccountCache(&config.Config{})

	assert.Equal(t, defaultTTL, c.ttl)
	assert.Equal(t, defaultMaxSize, c.maxSize)
}
