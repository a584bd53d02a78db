package planning

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dayflow-app/dayflow-backend/pkg/date"
	"github.com/dayflow-app/dayflow-backend/pkg/users"
)

var location, _ = time.LoadLocation("Europe/Berlin")

// fixNow pins the engine clock for one test
func fixNow(t *testing.T, fixed time.Time) {
	previous := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = previous })
}

func TestAutoFit_SimpleFit(t *testing.T) {
	fixNow(t, time.Date(2021, 1, 1, 12, 0, 0, 0, location))

	request := &AutoFitRequest{
		Tasks: []*Task{{ID: "task-1", Title: "Write report", ListID: "inbox", ListTitle: "Inbox"}},
		Settings: users.SchedulingSettings{
			DefaultTaskDurationMinutes: 30,
			WorkingHours: []users.WorkingHourPeriod{
				{ID: "morning", Start: "09:00", End: "10:00"},
			},
		},
		Day:      "2021-03-01",
		TimeZone: "Europe/Berlin",
	}

	result, err := AutoFit(request)
	if err != nil {
		t.Fatalf("AutoFit() error: %v", err)
	}

	if len(result.Placements) != 1 {
		t.Fatalf("AutoFit() produced %d placements, want 1", len(result.Placements))
	}

	placement := result.Placements[0]
	if want := time.Date(2021, 3, 1, 9, 0, 0, 0, location); !placement.Start.Equal(want) {
		t.Errorf("placement starts at %v, want %v", placement.Start, want)
	}

	if placement.TaskID != "task-1" {
		t.Errorf("placement references task %s, want task-1", placement.TaskID)
	}

	if placement.DurationMinutes != 30 {
		t.Errorf("placement lasts %d minutes, want 30", placement.DurationMinutes)
	}

	if placement.Title != "Write report" || placement.ListTitle != "Inbox" {
		t.Errorf("placement did not take over the task display info: %+v", placement)
	}

	if len(result.UnplacedTasks) != 0 {
		t.Errorf("AutoFit() left %d tasks unplaced, want 0", len(result.UnplacedTasks))
	}

	if result.Message != "Placed 1 tasks, all tasks fit" {
		t.Errorf("message = %q", result.Message)
	}
}

func TestAutoFit_BusyEventBlocksPlacement(t *testing.T) {
	fixNow(t, time.Date(2021, 1, 1, 12, 0, 0, 0, location))

	request := &AutoFitRequest{
		Tasks: []*Task{{ID: "task-1", Title: "Write report"}},
		ExistingEvents: []*Event{
			{ID: "standup", Date: date.Timespan{
				Start: time.Date(2021, 3, 1, 9, 0, 0, 0, location),
				End:   time.Date(2021, 3, 1, 9, 30, 0, 0, location),
			}},
		},
		Settings: users.SchedulingSettings{
			DefaultTaskDurationMinutes: 30,
			MinTimeBetweenTasksMinutes: 15,
			WorkingHours: []users.WorkingHourPeriod{
				{ID: "morning", Start: "09:00", End: "10:00"},
			},
		},
		Day:      "2021-03-01",
		TimeZone: "Europe/Berlin",
	}

	result, err := AutoFit(request)
	if err != nil {
		t.Fatalf("AutoFit() error: %v", err)
	}

	// The padded event blocks 08:45 - 09:45, the 15 leftover minutes do not
	// hold a 30 minute task
	if len(result.Placements) != 0 {
		t.Fatalf("AutoFit() produced %d placements, want 0", len(result.Placements))
	}

	if len(result.UnplacedTasks) != 1 || result.UnplacedTasks[0].ID != "task-1" {
		t.Errorf("AutoFit() unplaced = %v, want just task-1", result.UnplacedTasks)
	}

	if result.Message != "Placed 0 tasks, no available slots" {
		t.Errorf("message = %q", result.Message)
	}
}

func TestAutoFit_PerPeriodCarryover(t *testing.T) {
	fixNow(t, time.Date(2021, 1, 1, 12, 0, 0, 0, location))

	var tasks []*Task
	for index := 0; index < 10; index++ {
		tasks = append(tasks, &Task{ID: fmt.Sprintf("task-%d", index), Title: fmt.Sprintf("Task %d", index)})
	}

	request := &AutoFitRequest{
		Tasks: tasks,
		ExistingPlacements: []*Placement{
			{
				ID:              "existing",
				TaskID:          "already-placed",
				Start:           time.Date(2021, 3, 1, 10, 0, 0, 0, location),
				DurationMinutes: 45,
			},
		},
		Settings: users.SchedulingSettings{
			DefaultTaskDurationMinutes: 30,
			MinTimeBetweenTasksMinutes: 15,
			SlotMinTime:                "10:00",
			SlotMaxTime:                "23:00",
			WorkingHours: []users.WorkingHourPeriod{
				{ID: "night", Start: "00:00", End: "03:00"},
				{ID: "day", Start: "10:00", End: "12:45"},
			},
		},
		Day:           "2021-03-01",
		TimeZone:      "Europe/Berlin",
		PeriodFilters: map[string]*Filter{},
	}

	result, err := AutoFit(request)
	if err != nil {
		t.Fatalf("AutoFit() error: %v", err)
	}

	// The night period is clipped away by the visible range and the existing
	// placement blocks 09:45 - 11:00, leaving 11:00 - 12:45 for two tasks
	if len(result.Placements) != 2 {
		t.Fatalf("AutoFit() produced %d placements, want 2", len(result.Placements))
	}

	wantStarts := []time.Time{
		time.Date(2021, 3, 1, 11, 0, 0, 0, location),
		time.Date(2021, 3, 1, 11, 45, 0, 0, location),
	}

	for index, placement := range result.Placements {
		if !placement.Start.Equal(wantStarts[index]) {
			t.Errorf("placement %d starts at %v, want %v", index, placement.Start, wantStarts[index])
		}
	}

	if len(result.UnplacedTasks) != 8 {
		t.Errorf("AutoFit() left %d tasks unplaced, want 8", len(result.UnplacedTasks))
	}

	if result.Message != "Placed 2 tasks, 8 could not fit" {
		t.Errorf("message = %q", result.Message)
	}
}

func TestAutoFit_FilterExcludesSearchTerm(t *testing.T) {
	fixNow(t, time.Date(2021, 1, 1, 12, 0, 0, 0, location))

	due := time.Date(2021, 3, 1, 18, 0, 0, 0, location)

	request := &AutoFitRequest{
		Tasks: []*Task{
			{ID: "task-1", Title: "Urgent report", Favored: true, DueDate: &due},
			{ID: "task-2", Title: "Water plants"},
		},
		Settings: users.SchedulingSettings{
			DefaultTaskDurationMinutes: 30,
			WorkingHours: []users.WorkingHourPeriod{
				{ID: "morning", Start: "09:00", End: "10:00"},
			},
		},
		Day:      "2021-03-01",
		TimeZone: "Europe/Berlin",
		PeriodFilters: map[string]*Filter{
			"morning": {SearchText: "-urgent"},
		},
	}

	result, err := AutoFit(request)
	if err != nil {
		t.Fatalf("AutoFit() error: %v", err)
	}

	// The urgent task outranks everything but the filter must still drop it
	if len(result.Placements) != 1 || result.Placements[0].TaskID != "task-2" {
		t.Fatalf("AutoFit() placements = %v, want just task-2", result.Placements)
	}

	if len(result.UnplacedTasks) != 1 || result.UnplacedTasks[0].ID != "task-1" {
		t.Errorf("AutoFit() unplaced = %v, want just task-1", result.UnplacedTasks)
	}
}

func TestAutoFit_TodayExcludesPastTime(t *testing.T) {
	fixNow(t, time.Date(2021, 3, 1, 12, 7, 0, 0, location))

	request := &AutoFitRequest{
		Tasks: []*Task{{ID: "task-1", Title: "Write report"}},
		Settings: users.SchedulingSettings{
			DefaultTaskDurationMinutes: 30,
			WorkingHours: []users.WorkingHourPeriod{
				{ID: "day", Start: "09:00", End: "14:00"},
			},
		},
		Day:      "2021-03-01",
		TimeZone: "Europe/Berlin",
	}

	result, err := AutoFit(request)
	if err != nil {
		t.Fatalf("AutoFit() error: %v", err)
	}

	if len(result.Placements) != 1 {
		t.Fatalf("AutoFit() produced %d placements, want 1", len(result.Placements))
	}

	// 12:07 rounds up to the next quarter hour
	if want := time.Date(2021, 3, 1, 12, 15, 0, 0, location); !result.Placements[0].Start.Equal(want) {
		t.Errorf("placement starts at %v, want %v", result.Placements[0].Start, want)
	}
}

func TestAutoFit_PlacesHigherPriorityFirst(t *testing.T) {
	fixNow(t, time.Date(2021, 1, 1, 12, 0, 0, 0, location))

	due := time.Date(2021, 3, 1, 18, 0, 0, 0, location)

	request := &AutoFitRequest{
		Tasks: []*Task{
			{ID: "casual", Title: "Sort photos"},
			{ID: "important", Title: "File taxes", Favored: true, DueDate: &due},
		},
		Settings: users.SchedulingSettings{
			DefaultTaskDurationMinutes: 30,
			WorkingHours: []users.WorkingHourPeriod{
				{ID: "morning", Start: "09:00", End: "10:00"},
			},
		},
		Day:      "2021-03-01",
		TimeZone: "Europe/Berlin",
	}

	result, err := AutoFit(request)
	if err != nil {
		t.Fatalf("AutoFit() error: %v", err)
	}

	if len(result.Placements) != 2 {
		t.Fatalf("AutoFit() produced %d placements, want 2", len(result.Placements))
	}

	if result.Placements[0].TaskID != "important" || result.Placements[1].TaskID != "casual" {
		t.Errorf("AutoFit() placed %s before %s, want the favored due task first",
			result.Placements[0].TaskID, result.Placements[1].TaskID)
	}
}

func TestAutoFit_ZeroGapPacksBackToBack(t *testing.T) {
	fixNow(t, time.Date(2021, 1, 1, 12, 0, 0, 0, location))

	request := &AutoFitRequest{
		Tasks: []*Task{
			{ID: "task-1", Title: "First"},
			{ID: "task-2", Title: "Second"},
		},
		Settings: users.SchedulingSettings{
			DefaultTaskDurationMinutes: 30,
			WorkingHours: []users.WorkingHourPeriod{
				{ID: "morning", Start: "09:00", End: "10:00"},
			},
		},
		Day:      "2021-03-01",
		TimeZone: "Europe/Berlin",
	}

	result, err := AutoFit(request)
	if err != nil {
		t.Fatalf("AutoFit() error: %v", err)
	}

	if len(result.Placements) != 2 {
		t.Fatalf("AutoFit() produced %d placements, want 2", len(result.Placements))
	}

	first, second := result.Placements[0], result.Placements[1]
	if !second.Start.Equal(first.Timespan().End) {
		t.Errorf("placements are not back to back: %v then %v", first.Start, second.Start)
	}
}

func TestAutoFit_ContainerTasksExcludedGlobally(t *testing.T) {
	fixNow(t, time.Date(2021, 1, 1, 12, 0, 0, 0, location))

	request := &AutoFitRequest{
		Tasks: []*Task{
			{ID: "parent", Title: "Renovation", HasSubtasks: true},
			{ID: "leaf", Title: "Buy paint"},
		},
		Settings: users.SchedulingSettings{
			DefaultTaskDurationMinutes: 30,
			IgnoreContainerTasks:       true,
			WorkingHours: []users.WorkingHourPeriod{
				{ID: "morning", Start: "09:00", End: "10:00"},
			},
		},
		Day:      "2021-03-01",
		TimeZone: "Europe/Berlin",
	}

	result, err := AutoFit(request)
	if err != nil {
		t.Fatalf("AutoFit() error: %v", err)
	}

	if len(result.Placements) != 1 || result.Placements[0].TaskID != "leaf" {
		t.Fatalf("AutoFit() placements = %v, want just leaf", result.Placements)
	}

	// The excluded container shows up neither placed nor unplaced
	if len(result.UnplacedTasks) != 0 {
		t.Errorf("AutoFit() unplaced = %v, want none", result.UnplacedTasks)
	}
}

func TestAutoFit_UnknownZoneFallsBackToUTC(t *testing.T) {
	fixNow(t, time.Date(2021, 1, 1, 12, 0, 0, 0, location))

	request := &AutoFitRequest{
		Tasks: []*Task{{ID: "task-1", Title: "Write report"}},
		Settings: users.SchedulingSettings{
			DefaultTaskDurationMinutes: 30,
			WorkingHours: []users.WorkingHourPeriod{
				{ID: "morning", Start: "09:00", End: "10:00"},
			},
		},
		Day:      "2021-03-01",
		TimeZone: "Not/AZone",
	}

	result, err := AutoFit(request)
	if err != nil {
		t.Fatalf("AutoFit() error: %v", err)
	}

	if len(result.Placements) != 1 {
		t.Fatalf("AutoFit() produced %d placements, want 1", len(result.Placements))
	}

	if want := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC); !result.Placements[0].Start.Equal(want) {
		t.Errorf("placement starts at %v, want %v", result.Placements[0].Start, want)
	}
}

func TestAutoFit_SkipsEventsWithoutDates(t *testing.T) {
	fixNow(t, time.Date(2021, 1, 1, 12, 0, 0, 0, location))

	request := &AutoFitRequest{
		Tasks: []*Task{{ID: "task-1", Title: "Write report"}},
		ExistingEvents: []*Event{
			{ID: "all-day", Title: "Holiday"},
		},
		Settings: users.SchedulingSettings{
			DefaultTaskDurationMinutes: 30,
			WorkingHours: []users.WorkingHourPeriod{
				{ID: "morning", Start: "09:00", End: "10:00"},
			},
		},
		Day:      "2021-03-01",
		TimeZone: "Europe/Berlin",
	}

	result, err := AutoFit(request)
	if err != nil {
		t.Fatalf("AutoFit() error: %v", err)
	}

	if len(result.Placements) != 1 {
		t.Errorf("AutoFit() produced %d placements, want 1; the dateless event must not block", len(result.Placements))
	}
}

func TestAutoFit_UnresolvableDayFails(t *testing.T) {
	fixNow(t, time.Date(2021, 1, 1, 12, 0, 0, 0, location))

	request := &AutoFitRequest{
		Tasks: []*Task{{ID: "task-1", Title: "Write report"}},
		Settings: users.SchedulingSettings{
			DefaultTaskDurationMinutes: 30,
			WorkingHours: []users.WorkingHourPeriod{
				{ID: "morning", Start: "09:00", End: "10:00"},
			},
		},
		// Samoa skipped this day entirely when it crossed the date line
		Day:      "2011-12-30",
		TimeZone: "Pacific/Apia",
	}

	_, err := AutoFit(request)
	if err == nil {
		t.Fatalf("AutoFit() resolved a skipped day")
	}

	var resolutionError *date.TimezoneResolutionError
	if !errors.As(err, &resolutionError) {
		t.Errorf("AutoFit() error = %v, want a TimezoneResolutionError", err)
	}
}

func TestAutoFit_EveryTaskEndsUpPlacedOrUnplaced(t *testing.T) {
	fixNow(t, time.Date(2021, 1, 1, 12, 0, 0, 0, location))

	due := time.Date(2021, 3, 1, 20, 0, 0, 0, location)

	var tasks []*Task
	for index := 0; index < 6; index++ {
		task := &Task{ID: fmt.Sprintf("task-%d", index), Title: fmt.Sprintf("Task %d", index)}
		if index%2 == 0 {
			task.DueDate = &due
		}
		if index%3 == 0 {
			task.Favored = true
		}
		tasks = append(tasks, task)
	}

	periods := []users.WorkingHourPeriod{
		{ID: "morning", Start: "09:00", End: "10:00", Color: "#00ff00"},
		{ID: "afternoon", Start: "14:00", End: "15:00"},
	}

	request := &AutoFitRequest{
		Tasks: tasks,
		Settings: users.SchedulingSettings{
			DefaultTaskDurationMinutes: 30,
			WorkingHours:               periods,
		},
		Day:      "2021-03-01",
		TimeZone: "Europe/Berlin",
		PeriodFilters: map[string]*Filter{
			"morning":   nil,
			"afternoon": nil,
		},
	}

	result, err := AutoFit(request)
	if err != nil {
		t.Fatalf("AutoFit() error: %v", err)
	}

	// Two periods of an hour each hold two tasks apiece
	if len(result.Placements) != 4 || len(result.UnplacedTasks) != 2 {
		t.Fatalf("AutoFit() = %d placed, %d unplaced, want 4 and 2",
			len(result.Placements), len(result.UnplacedTasks))
	}

	seen := map[string]bool{}
	for _, placement := range result.Placements {
		if seen[placement.TaskID] {
			t.Errorf("task %s was placed twice", placement.TaskID)
		}
		seen[placement.TaskID] = true
	}

	for _, task := range result.UnplacedTasks {
		if seen[task.ID] {
			t.Errorf("task %s is both placed and unplaced", task.ID)
		}
		seen[task.ID] = true
	}

	for _, task := range tasks {
		if !seen[task.ID] {
			t.Errorf("task %s is neither placed nor unplaced", task.ID)
		}
	}

	// Each placement has to lie inside one of the period windows and carry
	// that period's color
	spans := map[string]date.Timespan{
		"#00ff00": {Start: time.Date(2021, 3, 1, 9, 0, 0, 0, location), End: time.Date(2021, 3, 1, 10, 0, 0, 0, location)},
		"":        {Start: time.Date(2021, 3, 1, 14, 0, 0, 0, location), End: time.Date(2021, 3, 1, 15, 0, 0, 0, location)},
	}

	for _, placement := range result.Placements {
		span, ok := spans[placement.Color]
		if !ok {
			t.Errorf("placement %s has unexpected color %q", placement.ID, placement.Color)
			continue
		}

		occupied := placement.Timespan()
		if !span.Contains(occupied) {
			t.Errorf("placement %v lies outside its period window %v", occupied, span)
		}
	}
}
