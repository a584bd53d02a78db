package ratelimit

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// StoreRedis counts requests in Redis so all instances share one budget
type StoreRedis struct {
	DB *redis.Client
}

// NewStoreRedis initializes a new StoreRedis
func NewStoreRedis(redisClient *redis.Client) *StoreRedis {
	return &StoreRedis{DB: redisClient}
}

// Increment adds one to the counter behind key and returns the new count.
// The ttl is set when the key is first created.
func (s *StoreRedis) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := s.DB.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	if count == 1 {
		if err := s.DB.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, err
		}
	}

	return count, nil
}
