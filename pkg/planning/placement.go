package planning

import (
	"fmt"
	"time"

	"github.com/dayflow-app/dayflow-backend/pkg/date"
	"github.com/google/uuid"
)

// Placement is a block of time a task was scheduled into, either by the
// allocation run or by the user dragging it there. Placements are never
// mutated in place, a re-run supersedes them with new ones.
type Placement struct {
	ID              string    `json:"id"`
	TaskID          string    `json:"taskId" validate:"required"`
	Title           string    `json:"title"`
	ListID          string    `json:"listId"`
	ListTitle       string    `json:"listTitle"`
	Start           time.Time `json:"start" validate:"required"`
	DurationMinutes int       `json:"durationMinutes" validate:"required"`
	Color           string    `json:"color,omitempty"`
}

// NewPlacementID builds a unique placement ID from the placed task and start
func NewPlacementID(taskID string, start time.Time) string {
	millis := start.UTC().UnixNano() / int64(time.Millisecond)
	return fmt.Sprintf("%s-%d-%s", taskID, millis, uuid.New().String()[:8])
}

// Timespan expands the placement to the interval it occupies
func (p *Placement) Timespan() date.Timespan {
	return date.Timespan{
		Start: p.Start,
		End:   p.Start.Add(time.Duration(p.DurationMinutes) * time.Minute),
	}
}
