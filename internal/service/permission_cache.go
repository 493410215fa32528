package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abenitj/biblefacts-backend/internal/config"
)

// permissionCacheEntry is the stored form: the set plus an explicit expiry so
// staleness is decided by the injected clock, with the Redis TTL as backstop.
type permissionCacheEntry struct {
	Permissions []string  `json:"permissions"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (e *permissionCacheEntry) expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// RedisPermissionCache is the Redis-backed PermissionCache.
type RedisPermissionCache struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// NewRedisPermissionCache creates a cache with the given entry TTL.
func NewRedisPermissionCache(rdb *redis.Client, ttl time.Duration) *RedisPermissionCache {
	return &RedisPermissionCache{rdb: rdb, ttl: ttl, now: time.Now}
}

// Get returns the cached set, or nil on a miss. An entry past its expiry is
// treated as a miss and purged.
func (c *RedisPermissionCache) Get(ctx context.Context, userID int) ([]string, error) {
	raw, err := c.rdb.Get(ctx, config.CacheKey.UserPermissionsKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry permissionCacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		// Unreadable entry: purge and report a miss.
		_ = c.rdb.Del(ctx, config.CacheKey.UserPermissionsKey(userID)).Err()
		return nil, nil
	}

	if entry.expired(c.now()) {
		_ = c.rdb.Del(ctx, config.CacheKey.UserPermissionsKey(userID)).Err()
		return nil, nil
	}

	if entry.Permissions == nil {
		entry.Permissions = []string{}
	}
	return entry.Permissions, nil
}

// Set overwrites the cached set with a fresh expiry.
func (c *RedisPermissionCache) Set(ctx context.Context, userID int, permissions []string) error {
	entry := permissionCacheEntry{
		Permissions: permissions,
		ExpiresAt:   c.now().Add(c.ttl),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, config.CacheKey.UserPermissionsKey(userID), raw, c.ttl).Err()
}

// Invalidate drops the cached set.
func (c *RedisPermissionCache) Invalidate(ctx context.Context, userID int) error {
	return c.rdb.Del(ctx, config.CacheKey.UserPermissionsKey(userID)).Err()
}
