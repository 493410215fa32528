package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abenitj/biblefacts-backend/internal/config"
)

func newRedisCacheFixture(t *testing.T, ttl time.Duration) (*RedisPermissionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisPermissionCache(rdb, ttl), mr
}

func TestRedisPermissionCacheRoundTrip(t *testing.T) {
	cache, _ := newRedisCacheFixture(t, 24*time.Hour)
	perms := []string{"view_dashboard", "edit_content", "view_topics"}

	require.NoError(t, cache.Set(context.Background(), 7, perms))

	got, err := cache.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, perms, got)
}

func TestRedisPermissionCacheMiss(t *testing.T) {
	cache, _ := newRedisCacheFixture(t, 24*time.Hour)

	got, err := cache.Get(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisPermissionCacheExpiredEntryIsMissAndPurged(t *testing.T) {
	cache, mr := newRedisCacheFixture(t, 24*time.Hour)
	key := config.CacheKey.UserPermissionsKey(7)

	require.NoError(t, cache.Set(context.Background(), 7, []string{"view_dashboard"}))
	require.True(t, mr.Exists(key))

	// Move the clock past the stored expiry: the entry reads as a miss and
	// the stored keys are cleared.
	cache.now = func() time.Time { return time.Now().Add(24*time.Hour + time.Second) }

	got, err := cache.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(key))
}

func TestRedisPermissionCacheUnreadableEntryIsPurged(t *testing.T) {
	cache, mr := newRedisCacheFixture(t, 24*time.Hour)
	key := config.CacheKey.UserPermissionsKey(7)

	require.NoError(t, mr.Set(key, "not-json"))

	got, err := cache.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(key))
}

func TestRedisPermissionCacheInvalidate(t *testing.T) {
	cache, mr := newRedisCacheFixture(t, 24*time.Hour)
	key := config.CacheKey.UserPermissionsKey(7)

	require.NoError(t, cache.Set(context.Background(), 7, []string{"view_dashboard"}))
	require.NoError(t, cache.Invalidate(context.Background(), 7))
	assert.False(t, mr.Exists(key))
}
