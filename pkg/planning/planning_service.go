package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/dayflow-app/dayflow-backend/pkg/date"
	"github.com/dayflow-app/dayflow-backend/pkg/locking"
	"github.com/dayflow-app/dayflow-backend/pkg/logger"
	"github.com/dayflow-app/dayflow-backend/pkg/users"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrTaskNotFound is returned when a task referenced in a request does not exist
var ErrTaskNotFound = errors.New("task not found")

// The PlanningService combines the task, calendar and placement sources
// into one day planning workflow
type PlanningService struct {
	userRepository      users.UserRepositoryInterface
	placementRepository PlacementRepositoryInterface
	taskSource          TaskSourceInterface
	calendarSource      CalendarSourceInterface
	snapshotCache       SnapshotCacheInterface
	logger              logger.Interface
	locker              locking.LockerInterface
}

// NewPlanningService constructs a PlanningService
func NewPlanningService(
	userRepository users.UserRepositoryInterface,
	placementRepository PlacementRepositoryInterface,
	taskSource TaskSourceInterface,
	calendarSource CalendarSourceInterface,
	snapshotCache SnapshotCacheInterface,
	logger logger.Interface,
	locker locking.LockerInterface) *PlanningService {
	service := PlanningService{}

	service.userRepository = userRepository
	service.placementRepository = placementRepository
	service.taskSource = taskSource
	service.calendarSource = calendarSource
	service.snapshotCache = snapshotCache
	service.logger = logger
	service.locker = locker

	return &service
}

// PlanDay runs one allocation for a user and day and persists the outcome.
// A lock per user and day keeps concurrent runs from double booking slots.
func (s *PlanningService) PlanDay(ctx context.Context, userID string, day string, timeZone string, filters map[string]*Filter) (*AutoFitResult, error) {
	user, err := s.userRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings := user.Settings.Scheduling.WithDefaults()

	zone := date.NormalizeZone(timeZone)
	if timeZone == "" {
		zone = date.NormalizeZone(settings.TimeZone)
	}

	lock, err := s.locker.Acquire(ctx, fmt.Sprintf("planning-%s-%s", userID, day), time.Second*30, false, 32*time.Second)
	if err != nil {
		return nil, err
	}

	defer func(lock locking.LockInterface, ctx context.Context) {
		err := lock.Release(ctx)
		if err != nil {
			s.logger.Error("error releasing lock", errors.Wrap(err, "error releasing lock"))
		}
	}(lock, ctx)

	snapshot, err := s.loadSnapshot(ctx, userID, day, zone)
	if err != nil {
		return nil, err
	}

	existingPlacements, err := s.placementRepository.FindForDay(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	result, err := AutoFit(&AutoFitRequest{
		Tasks:              snapshot.Tasks,
		ExistingEvents:     snapshot.Events,
		ExistingPlacements: existingPlacements,
		Settings:           settings,
		Day:                day,
		TimeZone:           zone,
		PeriodFilters:      filters,
	})
	if err != nil {
		return nil, err
	}

	if err := s.placementRepository.AddAll(ctx, userID, day, result.Placements); err != nil {
		return nil, err
	}

	return result, nil
}

// PlaceTask places a single task at a wall-clock time the user chose, e.g.
// by dragging it onto the day. No overlap checks happen here, the user may
// stack placements deliberately.
func (s *PlanningService) PlaceTask(ctx context.Context, userID string, day string, taskID string, startClock string, timeZone string, durationMinutes int) (*Placement, error) {
	user, err := s.userRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings := user.Settings.Scheduling.WithDefaults()

	zone := date.NormalizeZone(timeZone)
	if timeZone == "" {
		zone = date.NormalizeZone(settings.TimeZone)
	}

	start, err := date.ResolveWallTime(day, startClock, zone)
	if err != nil {
		return nil, err
	}

	if durationMinutes <= 0 {
		durationMinutes = settings.DefaultTaskDurationMinutes
	}

	task, err := s.findTask(ctx, userID, day, zone, taskID)
	if err != nil {
		return nil, err
	}

	placement := placeTaskAt(task, start, durationMinutes, "")

	if err := s.placementRepository.Add(ctx, userID, day, placement); err != nil {
		return nil, err
	}

	return placement, nil
}

// PlacementsForDay lists a day's placements ordered by start
func (s *PlanningService) PlacementsForDay(ctx context.Context, userID string, day string) ([]*Placement, error) {
	return s.placementRepository.FindForDay(ctx, userID, day)
}

// RemovePlacement deletes a single placement from a day
func (s *PlanningService) RemovePlacement(ctx context.Context, userID string, day string, placementID string) error {
	return s.placementRepository.Remove(ctx, userID, day, placementID)
}

// RefreshSnapshot drops the cached task and event state for a day so the
// next run fetches it fresh
func (s *PlanningService) RefreshSnapshot(ctx context.Context, userID string, day string) error {
	return s.snapshotCache.Invalidate(ctx, snapshotKey(userID, day))
}

func snapshotKey(userID string, day string) string {
	return fmt.Sprintf("snapshot:%s:%s", userID, day)
}

// loadSnapshot fetches the day's tasks and events, going through the cache.
// Tasks and events load in parallel on a cache miss.
func (s *PlanningService) loadSnapshot(ctx context.Context, userID string, day string, zone string) (*Snapshot, error) {
	key := snapshotKey(userID, day)

	snapshot, err := s.snapshotCache.Get(ctx, key)
	if err == nil {
		return snapshot, nil
	}

	dayStart, err := date.ResolveWallTime(day, "00:00", zone)
	if err != nil {
		return nil, err
	}

	dayEnd, err := date.ResolveWallTime(day, "24:00", zone)
	if err != nil {
		return nil, err
	}

	snapshot = &Snapshot{}

	wg, groupCtx := errgroup.WithContext(ctx)

	wg.Go(func() error {
		tasks, err := s.taskSource.Tasks(groupCtx, userID)
		if err != nil {
			return err
		}

		snapshot.Tasks = tasks
		return nil
	})

	wg.Go(func() error {
		events, err := s.calendarSource.EventsBetween(groupCtx, userID, dayStart, dayEnd)
		if err != nil {
			return err
		}

		snapshot.Events = events
		return nil
	})

	if err := wg.Wait(); err != nil {
		return nil, err
	}

	if err := s.snapshotCache.Add(ctx, key, snapshot); err != nil {
		s.logger.Warning("could not cache snapshot", err)
	}

	return snapshot, nil
}

func (s *PlanningService) findTask(ctx context.Context, userID string, day string, zone string, taskID string) (*Task, error) {
	snapshot, err := s.loadSnapshot(ctx, userID, day, zone)
	if err != nil {
		return nil, err
	}

	for _, task := range snapshot.Tasks {
		if task.ID == taskID {
			return task, nil
		}
	}

	return nil, ErrTaskNotFound
}
