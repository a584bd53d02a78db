package ratelimit

import (
	"context"
	"sync"
	"time"
)

// StoreMemory counts requests in process memory, for tests and single
// instance deployments
type StoreMemory struct {
	mutex   sync.Mutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	count   int64
	expires time.Time
}

// NewStoreMemory initializes a new StoreMemory
func NewStoreMemory() *StoreMemory {
	return &StoreMemory{entries: map[string]*memoryEntry{}}
}

// Increment adds one to the counter behind key and returns the new count
func (s *StoreMemory) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, ok := s.entries[key]
	if !ok || time.Now().After(entry.expires) {
		entry = &memoryEntry{expires: time.Now().Add(ttl)}
		s.entries[key] = entry
	}

	entry.count++

	return entry.count, nil
}
