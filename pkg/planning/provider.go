package planning

import (
	"context"
	"time"
)

// TaskSourceInterface is the interface for wherever a user's tasks live,
// e.g. an external todo service or a local store
type TaskSourceInterface interface {
	Tasks(ctx context.Context, userID string) ([]*Task, error)
	Lists(ctx context.Context, userID string) ([]*TaskList, error)
}

// CalendarSourceInterface is the interface for every calendar implementation
// events can be read from
type CalendarSourceInterface interface {
	EventsBetween(ctx context.Context, userID string, start time.Time, end time.Time) ([]*Event, error)
}

// SyncTargetInterface is the interface for the store clients push their
// provider data into. Pushes replace the previous state wholesale.
type SyncTargetInterface interface {
	ReplaceTasks(ctx context.Context, userID string, tasks []*Task, lists []*TaskList) error
	ReplaceEvents(ctx context.Context, userID string, events []*Event) error
}
