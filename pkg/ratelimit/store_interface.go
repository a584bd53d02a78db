package ratelimit

import (
	"context"
	"time"
)

// StoreInterface counts requests per key. Implementations have to expire a
// key after the given ttl so stale windows clean themselves up.
type StoreInterface interface {
	// Increment adds one to the counter behind key and returns the new count
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
