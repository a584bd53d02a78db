package planning

import (
	"context"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/go-redis/redis/v8"
)

// snapshotTTL keeps cached snapshots short-lived so freshly created tasks
// and events show up on the next planning run
const snapshotTTL = time.Minute

// SnapshotCacheRedis caches snapshots in redis, shared between instances
type SnapshotCacheRedis struct {
	Cache *cache.Cache
}

// NewSnapshotCacheRedis initializes a new SnapshotCacheRedis
func NewSnapshotCacheRedis(redisClient *redis.Client) *SnapshotCacheRedis {
	redisCache := cache.New(&cache.Options{
		Redis: redisClient,
	})

	return &SnapshotCacheRedis{
		Cache: redisCache,
	}
}

// Add adds a Snapshot to the cache
func (c *SnapshotCacheRedis) Add(ctx context.Context, key string, snapshot *Snapshot) error {
	err := c.Cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: snapshot,
		TTL:   snapshotTTL,
	})
	if err != nil {
		return err
	}

	return nil
}

// Invalidate invalidates a cached Snapshot
func (c *SnapshotCacheRedis) Invalidate(ctx context.Context, key string) error {
	err := c.Cache.Delete(ctx, key)
	if err != nil {
		return err
	}

	return nil
}

// Get retrieves a Snapshot from the cache
func (c *SnapshotCacheRedis) Get(ctx context.Context, key string) (*Snapshot, error) {
	result := Snapshot{}
	err := c.Cache.Get(ctx, key, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}
