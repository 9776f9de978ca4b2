package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"nutritrack/internal/infrastructure/config"
	"nutritrack/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, maxSize int) (*CacheManager, *time.Time) {
	t.Helper()
	m := NewManager(config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: maxSize, TTL: time.Minute})
	require.NotNil(t, m)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	t.Cleanup(func() { _ = m.Close() })
	return m, &clock
}

func TestCacheManagerGetSet(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, 10)

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "k", "v"))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	stats := m.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 1, stats["size"])
}

func TestCacheManagerExpiry(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(t, 10)

	require.NoError(t, m.Set(ctx, "k", "v"))
	*clock = clock.Add(2 * time.Minute)

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	assert.Equal(t, 0, m.Stats()["size"])
}

func TestCacheManagerEvictsLeastUsed(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(t, 2)

	require.NoError(t, m.Set(ctx, "a", "1"))
	*clock = clock.Add(time.Second)
	require.NoError(t, m.Set(ctx, "b", "2"))

	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	for _, key := range []string{"a", "c"} {
		_, err := m.Get(ctx, key)
		assert.NoError(t, err, key)
	}
}

func TestCacheManagerOverwriteAtCapacity(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, 1)

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "a", "2"))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestNewManagerDisabled(t *testing.T) {
	assert.Nil(t, NewManager(config.CacheConfig{Enabled: false}))
}

func TestNewFactory(t *testing.T) {
	c, err := New(context.Background(), &config.Config{Cache: config.CacheConfig{Enabled: false}})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = New(context.Background(), &config.Config{Cache: config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: 1, TTL: time.Minute}})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "memory", c.Stats()["backend"])
	require.NoError(t, c.Close())

	_, err = New(context.Background(), &config.Config{Cache: config.CacheConfig{Enabled: true, Backend: "memcached"}})
	assert.Error(t, err)
}

func TestRedisServiceKeyPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	s := newService(client, "nutritrack:suggestion:", time.Minute)
	for i, key := range []string{"abc", ""} {
		assert.Equal(t, fmt.Sprintf("nutritrack:suggestion:%s", key), s.generateKey(key), i)
	}
}
