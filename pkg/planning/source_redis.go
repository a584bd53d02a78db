package planning

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dayflow-app/dayflow-backend/pkg/date"
	"github.com/dayflow-app/dayflow-backend/pkg/logger"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// SourceRedis serves tasks, task lists and events out of redis. Clients push
// their provider state through the sync endpoint, which makes this both the
// sync target and the source the planning runs read from.
type SourceRedis struct {
	DB     *redis.Client
	Logger logger.Interface
}

// NewSourceRedis initializes a new SourceRedis
func NewSourceRedis(redisClient *redis.Client, logger logger.Interface) *SourceRedis {
	return &SourceRedis{DB: redisClient, Logger: logger}
}

func tasksKey(userID string) string {
	return fmt.Sprintf("sync:tasks:%s", userID)
}

func taskListsKey(userID string) string {
	return fmt.Sprintf("sync:tasklists:%s", userID)
}

func eventsKey(userID string) string {
	return fmt.Sprintf("sync:events:%s", userID)
}

// ReplaceTasks overwrites the user's synced tasks and task lists
func (s *SourceRedis) ReplaceTasks(ctx context.Context, userID string, tasks []*Task, lists []*TaskList) error {
	if err := s.set(ctx, tasksKey(userID), tasks); err != nil {
		return errors.Wrapf(err, "could not store tasks for user %s", userID)
	}

	if err := s.set(ctx, taskListsKey(userID), lists); err != nil {
		return errors.Wrapf(err, "could not store task lists for user %s", userID)
	}

	return nil
}

// ReplaceEvents overwrites the user's synced calendar events
func (s *SourceRedis) ReplaceEvents(ctx context.Context, userID string, events []*Event) error {
	if err := s.set(ctx, eventsKey(userID), events); err != nil {
		return errors.Wrapf(err, "could not store events for user %s", userID)
	}

	return nil
}

// Tasks returns the user's synced tasks
func (s *SourceRedis) Tasks(ctx context.Context, userID string) ([]*Task, error) {
	var tasks []*Task
	if err := s.get(ctx, tasksKey(userID), &tasks); err != nil {
		return nil, errors.Wrapf(err, "could not load tasks for user %s", userID)
	}

	return tasks, nil
}

// Lists returns the user's synced task lists
func (s *SourceRedis) Lists(ctx context.Context, userID string) ([]*TaskList, error) {
	var lists []*TaskList
	if err := s.get(ctx, taskListsKey(userID), &lists); err != nil {
		return nil, errors.Wrapf(err, "could not load task lists for user %s", userID)
	}

	return lists, nil
}

// EventsBetween returns the user's synced events overlapping the given range
func (s *SourceRedis) EventsBetween(ctx context.Context, userID string, start time.Time, end time.Time) ([]*Event, error) {
	var stored []*Event
	if err := s.get(ctx, eventsKey(userID), &stored); err != nil {
		return nil, errors.Wrapf(err, "could not load events for user %s", userID)
	}

	window := date.Timespan{Start: start, End: end}

	var events []*Event
	for _, event := range stored {
		if !event.Date.IntersectsWith(window) {
			continue
		}

		events = append(events, event)
	}

	return events, nil
}

func (s *SourceRedis) set(ctx context.Context, key string, value interface{}) error {
	binary, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.DB.Set(ctx, key, binary, 0).Err()
}

// get unmarshals the value behind key into target and leaves target alone
// when the key does not exist
func (s *SourceRedis) get(ctx context.Context, key string, target interface{}) error {
	result, err := s.DB.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}

	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(result), target)
}
