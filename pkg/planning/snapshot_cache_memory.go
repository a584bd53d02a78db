package planning

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// SnapshotCacheMemory caches snapshots in process memory
type SnapshotCacheMemory struct {
	Cache *lru.Cache
}

// NewSnapshotCacheMemory initializes a new SnapshotCacheMemory
func NewSnapshotCacheMemory() (*SnapshotCacheMemory, error) {
	cache, err := lru.New(100)
	if err != nil {
		return nil, err
	}

	return &SnapshotCacheMemory{
		Cache: cache,
	}, nil
}

// Add adds a Snapshot to the cache
func (c *SnapshotCacheMemory) Add(_ context.Context, key string, snapshot *Snapshot) error {
	_ = c.Cache.Add(key, snapshot)
	return nil
}

// Invalidate removes a Snapshot from the cache
func (c *SnapshotCacheMemory) Invalidate(_ context.Context, key string) error {
	c.Cache.Remove(key)
	return nil
}

// Get retrieves a Snapshot from the cache
func (c *SnapshotCacheMemory) Get(_ context.Context, key string) (*Snapshot, error) {
	result, ok := c.Cache.Get(key)
	if !ok {
		return nil, fmt.Errorf("could not find key %s in snapshot cache", key)
	}

	snapshot, ok := result.(*Snapshot)
	if !ok {
		return nil, fmt.Errorf("cache entry was not a snapshot")
	}

	return snapshot, nil
}
