package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserPermissionsKey returns the cache key for a user's resolved permission set.
func (r *CacheKeyStruct) UserPermissionsKey(userID int) string {
	return fmt.Sprintf("permissions:%d", userID)
}

// SnapshotKey returns the cache key for the serialized content snapshot.
func (r *CacheKeyStruct) SnapshotKey() string {
	return "sync:snapshot"
}

// SnapshotRebuildQueue returns the Redis list name for snapshot rebuild jobs.
func (r *CacheKeyStruct) SnapshotRebuildQueue() string {
	return "sync:rebuild_queue"
}

// ContentStatsKey returns the cache key for aggregated content statistics.
func (r *CacheKeyStruct) ContentStatsKey() string {
	return "stats:content"
}

var CacheKey = NewCacheKeyStruct()
