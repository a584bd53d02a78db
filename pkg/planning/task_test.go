package planning

import (
	"fmt"
	"testing"
	"time"
)

func TestSortByPriority(t *testing.T) {
	t.Parallel()

	early := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	late := time.Date(2021, 3, 3, 9, 0, 0, 0, time.UTC)
	zero := time.Time{}

	tests := []struct {
		tasks []*Task
		want  []string
	}{
		{
			// Favored and due outranks favored outranks due outranks plain
			tasks: []*Task{
				{ID: "plain"},
				{ID: "due", DueDate: &late},
				{ID: "favored", Favored: true},
				{ID: "both", Favored: true, DueDate: &late},
			},
			want: []string{"both", "favored", "due", "plain"},
		},
		{
			// Equal scores with due dates fall back to the earlier date
			tasks: []*Task{
				{ID: "later", DueDate: &late},
				{ID: "sooner", DueDate: &early},
			},
			want: []string{"sooner", "later"},
		},
		{
			// Equal scores without due dates keep their input order
			tasks: []*Task{
				{ID: "first"},
				{ID: "second"},
				{ID: "third"},
			},
			want: []string{"first", "second", "third"},
		},
		{
			// A zero due date does not count as due
			tasks: []*Task{
				{ID: "zero", DueDate: &zero},
				{ID: "due", DueDate: &late},
			},
			want: []string{"due", "zero"},
		},
	}

	for index, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("Case %d", index), func(t *testing.T) {
			t.Parallel()

			SortByPriority(tt.tasks)

			for position, id := range tt.want {
				if tt.tasks[position].ID != id {
					t.Errorf("position %d holds %s, want %s", position, tt.tasks[position].ID, id)
				}
			}
		})
	}
}
