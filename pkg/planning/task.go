package planning

import (
	"sort"
	"time"
)

// Task is an item waiting to be scheduled. Tasks are input only, the engine
// never mutates them.
type Task struct {
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title"`
	ListID      string     `json:"listId"`
	ListTitle   string     `json:"listTitle"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	HasSubtasks bool       `json:"hasSubtasks"`
	Favored     bool       `json:"favored"`
	Notes       string     `json:"notes,omitempty"`
}

// HasDueDate reports whether the task carries a concrete due instant
func (t *Task) HasDueDate() bool {
	return t.DueDate != nil && !t.DueDate.IsZero()
}

func (t *Task) priorityScore() int {
	score := 0

	if t.Favored {
		score += 2
	}

	if t.HasDueDate() {
		score++
	}

	return score
}

// SortByPriority orders tasks by descending priority score. Among equal
// scores where both tasks are due, the earlier due date wins; everything
// else keeps its input order. The sort runs once per allocation, never
// mid-run.
func SortByPriority(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		left, right := tasks[i], tasks[j]

		if left.priorityScore() != right.priorityScore() {
			return left.priorityScore() > right.priorityScore()
		}

		if left.HasDueDate() && right.HasDueDate() {
			return left.DueDate.Before(*right.DueDate)
		}

		return false
	})
}

// TaskList groups tasks under a named list
type TaskList struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
