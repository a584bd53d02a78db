package locking

import (
	"context"
	"sync"
	"time"
)

// LockerMemory is a type of LockerInterface
type LockerMemory struct {
	pool  sync.Pool
	locks sync.Map
}

// NewLockerMemory builds a new LockerMemory instance
func NewLockerMemory() *LockerMemory {
	locker := LockerMemory{}
	locker.pool = sync.Pool{
		New: func() interface{} {
			return make(chan struct{}, 1)
		},
	}

	return &locker
}

// Acquire acquires a LockInterface
func (l *LockerMemory) Acquire(ctx context.Context, key string, _ time.Duration, tryOnlyOnce bool, timeout time.Duration) (LockInterface, error) {
	lock := l.getLock(key)

	if tryOnlyOnce {
		select {
		case lock <- struct{}{}:
		default:
			return nil, ErrLockNotObtained
		}
	} else {
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case lock <- struct{}{}:
		case <-timer.C:
			return nil, ErrLockNotObtained
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &LockMemory{
		key: key,
		release: func() {
			<-lock
		},
	}, nil
}

func (l *LockerMemory) getLock(key interface{}) chan struct{} {
	newLock := l.pool.Get()
	lock, stored := l.locks.LoadOrStore(key, newLock)
	if stored {
		l.pool.Put(newLock)
	}
	return lock.(chan struct{})
}

// LockMemory is a memory implementation of a LockInterface
type LockMemory struct {
	key     string
	release func()
}

// Key returns a key
func (l *LockMemory) Key() string {
	return l.key
}

// Release releases a LockMemory
func (l *LockMemory) Release(_ context.Context) error {
	l.release()
	return nil
}
