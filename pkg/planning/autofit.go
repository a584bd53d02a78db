package planning

import (
	"fmt"
	"time"

	"github.com/dayflow-app/dayflow-backend/pkg/date"
	"github.com/dayflow-app/dayflow-backend/pkg/users"
)

// now is the current time and is globally available to override it in tests
var now = time.Now

// slotGranularity aligns the earliest placeable time today to the next
// quarter hour
const slotGranularity = time.Minute * 15

// AutoFitRequest carries one day's already fetched state into an allocation
// run. The engine copies what it mutates, so the caller keeps ownership of
// every slice in here.
type AutoFitRequest struct {
	Tasks              []*Task
	ExistingEvents     []*Event
	ExistingPlacements []*Placement
	Settings           users.SchedulingSettings
	Day                string
	TimeZone           string
	PeriodFilters      map[string]*Filter
}

// AutoFitResult is the outcome of a single allocation run. Placements holds
// only the placements this run created, not the preexisting ones.
type AutoFitResult struct {
	Placements    []*Placement `json:"placements"`
	UnplacedTasks []*Task      `json:"unplacedTasks"`
	Message       string       `json:"message"`
}

type resolvedPeriod struct {
	period users.WorkingHourPeriod
	span   date.Timespan
}

// AutoFit packs tasks into the free time a day has left between its busy
// intervals. Working hour periods fill up in their configured order, each
// optionally narrowed by its own filter; a task placed by an earlier period
// is never reconsidered by a later one. Without a filter map the whole day
// is handled as one window instead.
//
// The run is synchronous and pure apart from reading the clock: it works on
// its own copies of the interval lists and leaves no shared state behind, so
// concurrent runs for different snapshots are safe. Callers wanting to guard
// the same user and day against racing runs have to lock upstream.
func AutoFit(request *AutoFitRequest) (*AutoFitResult, error) {
	settings := request.Settings.WithDefaults()

	zone := date.NormalizeZone(request.TimeZone)
	if request.TimeZone == "" {
		zone = date.NormalizeZone(settings.TimeZone)
	}

	visibleStart, err := date.ResolveWallTime(request.Day, settings.SlotMinTime, zone)
	if err != nil {
		return nil, err
	}

	visibleEnd, err := date.ResolveWallTime(request.Day, settings.SlotMaxTime, zone)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(settings.DefaultTaskDurationMinutes) * time.Minute
	minGap := time.Duration(settings.MinTimeBetweenTasksMinutes) * time.Minute

	periods, global, err := resolvePeriods(settings.WorkingHours, request.Day, zone, visibleStart, visibleEnd)
	if err != nil {
		return nil, err
	}

	if err := excludePastTime(&global, request.Day, zone); err != nil {
		return nil, err
	}

	for _, block := range BusyBlocks(request.ExistingEvents, request.ExistingPlacements, minGap) {
		global.Subtract(block)
	}

	// The container exclusion applies once, before any period sees a task
	tasks := make([]*Task, 0, len(request.Tasks))
	for _, task := range request.Tasks {
		if settings.IgnoreContainerTasks && task.HasSubtasks {
			continue
		}

		tasks = append(tasks, task)
	}

	placed := map[string]bool{}
	var placements []*Placement

	if request.PeriodFilters == nil {
		sorted := make([]*Task, len(tasks))
		copy(sorted, tasks)
		SortByPriority(sorted)

		for _, task := range sorted {
			slot := global.FindFit(duration)
			if slot == nil {
				continue
			}

			placements = append(placements, placeTaskAt(task, slot.Start, settings.DefaultTaskDurationMinutes, ""))
			placed[task.ID] = true

			global.Subtract(date.Timespan{Start: slot.Start, End: slot.End.Add(minGap)})
		}
	} else {
		for _, entry := range periods {
			if !entry.span.IsStartBeforeEnd() {
				continue
			}

			// Intersect with the global list so time consumed by busy
			// intervals or earlier periods stays consumed here
			slots := global.ClipToRange(entry.span.Start, entry.span.End)
			if len(slots) == 0 {
				continue
			}

			filter := request.PeriodFilters[entry.period.ID]

			var candidates []*Task
			for _, task := range tasks {
				if placed[task.ID] {
					continue
				}

				if !filter.Matches(task) {
					continue
				}

				candidates = append(candidates, task)
			}
			SortByPriority(candidates)

			for _, task := range candidates {
				slot := slots.FindFit(duration)
				if slot == nil {
					// The first task that does not fit ends this period
					break
				}

				placements = append(placements, placeTaskAt(task, slot.Start, settings.DefaultTaskDurationMinutes, entry.period.Color))
				placed[task.ID] = true

				consumed := date.Timespan{Start: slot.Start, End: slot.End.Add(minGap)}
				slots.Subtract(consumed)
				global.Subtract(consumed)
			}
		}
	}

	var unplaced []*Task
	for _, task := range tasks {
		if !placed[task.ID] {
			unplaced = append(unplaced, task)
		}
	}

	return &AutoFitResult{
		Placements:    placements,
		UnplacedTasks: unplaced,
		Message:       summaryMessage(len(placements), len(unplaced)),
	}, nil
}

// resolvePeriods turns the configured working hours into instant spans for
// the requested day, clipped to the visible calendar range. Periods left
// empty by the clipping keep their place in the order but contribute no
// free time.
func resolvePeriods(workingHours []users.WorkingHourPeriod, day string, zone string, visibleStart time.Time, visibleEnd time.Time) ([]resolvedPeriod, date.SlotList, error) {
	var periods []resolvedPeriod
	var global date.SlotList

	for _, period := range workingHours {
		start, err := date.ResolveWallTime(day, period.Start, zone)
		if err != nil {
			return nil, nil, err
		}

		end, err := date.ResolveWallTime(day, period.End, zone)
		if err != nil {
			return nil, nil, err
		}

		span := date.Timespan{Start: start, End: end}
		if span.Start.Before(visibleStart) {
			span.Start = visibleStart
		}
		if span.End.After(visibleEnd) {
			span.End = visibleEnd
		}

		periods = append(periods, resolvedPeriod{period: period, span: span})

		if span.IsStartBeforeEnd() {
			global = append(global, span)
		}
	}

	global.Sort()

	return periods, global, nil
}

// excludePastTime removes everything before now, rounded up to the next
// slot boundary, when the requested day is today in the viewing zone
func excludePastTime(global *date.SlotList, day string, zone string) error {
	dayStart, err := date.ResolveWallTime(day, "00:00", zone)
	if err != nil {
		return err
	}

	dayEnd, err := date.ResolveWallTime(day, "24:00", zone)
	if err != nil {
		return err
	}

	current := now().UTC()
	if current.Before(dayStart) || !current.Before(dayEnd) {
		return nil
	}

	global.Subtract(date.Timespan{Start: dayStart, End: date.RoundUp(current, slotGranularity)})

	return nil
}

func placeTaskAt(task *Task, start time.Time, durationMinutes int, color string) *Placement {
	return &Placement{
		ID:              NewPlacementID(task.ID, start),
		TaskID:          task.ID,
		Title:           task.Title,
		ListID:          task.ListID,
		ListTitle:       task.ListTitle,
		Start:           start,
		DurationMinutes: durationMinutes,
		Color:           color,
	}
}

func summaryMessage(placedCount int, unplacedCount int) string {
	if placedCount == 0 {
		return "Placed 0 tasks, no available slots"
	}

	if unplacedCount == 0 {
		return fmt.Sprintf("Placed %d tasks, all tasks fit", placedCount)
	}

	return fmt.Sprintf("Placed %d tasks, %d could not fit", placedCount, unplacedCount)
}
