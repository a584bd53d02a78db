package planning

import (
	"context"
	"time"

	"github.com/dayflow-app/dayflow-backend/pkg/date"
)

// MockTaskSource is a task source for testing
type MockTaskSource struct {
	TasksByUser map[string][]*Task
	ListsByUser map[string][]*TaskList
}

// Tasks returns the canned tasks for a user
func (s *MockTaskSource) Tasks(_ context.Context, userID string) ([]*Task, error) {
	return s.TasksByUser[userID], nil
}

// Lists returns the canned lists for a user
func (s *MockTaskSource) Lists(_ context.Context, userID string) ([]*TaskList, error) {
	return s.ListsByUser[userID], nil
}

// MockCalendarSource is a calendar source for testing
type MockCalendarSource struct {
	Events []*Event
}

// EventsBetween returns the canned events overlapping the given range
func (s *MockCalendarSource) EventsBetween(_ context.Context, _ string, start time.Time, end time.Time) ([]*Event, error) {
	window := date.Timespan{Start: start, End: end}

	var events []*Event
	for _, event := range s.Events {
		if !event.Date.IntersectsWith(window) {
			continue
		}

		events = append(events, event)
	}

	return events, nil
}
