package locking

import (
	"context"
	"testing"
	"time"
)

func TestLockerMemory_Acquire(t *testing.T) {
	locker := NewLockerMemory()

	lock, err := locker.Acquire(context.Background(), "key-1", time.Second*30, false, time.Second)
	if err != nil {
		t.Error(err)
	}

	if lock.Key() != "key-1" {
		t.Errorf("got key %s, want key-1", lock.Key())
	}

	// A second try-once acquire on the same key has to fail while the lock is held
	_, err = locker.Acquire(context.Background(), "key-1", time.Second*30, true, time.Second)
	if err != ErrLockNotObtained {
		t.Errorf("got %v, want ErrLockNotObtained", err)
	}

	// A different key is independent
	otherLock, err := locker.Acquire(context.Background(), "key-2", time.Second*30, true, time.Second)
	if err != nil {
		t.Error(err)
	}
	_ = otherLock.Release(context.Background())

	err = lock.Release(context.Background())
	if err != nil {
		t.Error(err)
	}

	// After release the key can be acquired again
	lock, err = locker.Acquire(context.Background(), "key-1", time.Second*30, true, time.Second)
	if err != nil {
		t.Error(err)
	}
	_ = lock.Release(context.Background())
}

func TestLockerMemory_AcquireTimeout(t *testing.T) {
	locker := NewLockerMemory()

	lock, err := locker.Acquire(context.Background(), "key-1", time.Second*30, false, time.Second)
	if err != nil {
		t.Error(err)
	}

	start := time.Now()
	_, err = locker.Acquire(context.Background(), "key-1", time.Second*30, false, 50*time.Millisecond)
	if err != ErrLockNotObtained {
		t.Errorf("got %v, want ErrLockNotObtained", err)
	}

	if time.Since(start) < 50*time.Millisecond {
		t.Error("acquire returned before the timeout expired")
	}

	_ = lock.Release(context.Background())
}
