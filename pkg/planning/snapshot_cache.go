package planning

import (
	"context"
)

// Snapshot is the fetched task and event state one allocation run works on.
// A run never re-checks its snapshot for staleness, it trusts what it got.
type Snapshot struct {
	Tasks  []*Task  `json:"tasks"`
	Events []*Event `json:"events"`
}

// SnapshotCacheInterface is the interface for caching fetched snapshots
type SnapshotCacheInterface interface {
	Add(ctx context.Context, key string, snapshot *Snapshot) error
	Invalidate(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (*Snapshot, error)
}
