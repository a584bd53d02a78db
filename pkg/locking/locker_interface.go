package locking

import (
	"context"
	"errors"
	"time"
)

// ErrLockNotObtained is returned when a lock could not be acquired in time
var ErrLockNotObtained = errors.New("lock could not be obtained")

// LockerInterface represents a Locker
type LockerInterface interface {
	Acquire(ctx context.Context, key string, ttl time.Duration, tryOnlyOnce bool, timeout time.Duration) (LockInterface, error)
}

// LockInterface represents a Lock
type LockInterface interface {
	Key() string
	Release(ctx context.Context) error
}
