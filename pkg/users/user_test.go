package users

import (
	"fmt"
	"reflect"
	"testing"
)

func TestSchedulingSettings_WithDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		settings SchedulingSettings
		want     SchedulingSettings
	}{
		// Case 0: empty settings receive every default
		{
			SchedulingSettings{},
			SchedulingSettings{
				TimeZone:                   "UTC",
				DefaultTaskDurationMinutes: 30,
				SlotMinTime:                "00:00",
				SlotMaxTime:                "24:00",
			},
		},
		// Case 1: configured values survive untouched
		{
			SchedulingSettings{
				TimeZone:                   "Europe/Berlin",
				DefaultTaskDurationMinutes: 45,
				MinTimeBetweenTasksMinutes: 15,
				SlotMinTime:                "08:00",
				SlotMaxTime:                "18:00",
				IgnoreContainerTasks:       true,
			},
			SchedulingSettings{
				TimeZone:                   "Europe/Berlin",
				DefaultTaskDurationMinutes: 45,
				MinTimeBetweenTasksMinutes: 15,
				SlotMinTime:                "08:00",
				SlotMaxTime:                "18:00",
				IgnoreContainerTasks:       true,
			},
		},
		// Case 2: nonsensical values fall back to safe ones
		{
			SchedulingSettings{
				DefaultTaskDurationMinutes: -10,
				MinTimeBetweenTasksMinutes: -5,
			},
			SchedulingSettings{
				TimeZone:                   "UTC",
				DefaultTaskDurationMinutes: 30,
				MinTimeBetweenTasksMinutes: 0,
				SlotMinTime:                "00:00",
				SlotMaxTime:                "24:00",
			},
		},
	}

	for index, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("Case %d", index), func(t *testing.T) {
			t.Parallel()

			if got := tt.settings.WithDefaults(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WithDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
