package planning

import (
	"github.com/dayflow-app/dayflow-backend/pkg/date"
)

// Event represents a simple calendar appointment that blocks time. Events
// without a concrete start and end, like all-day entries, never block.
type Event struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Date  date.Timespan `json:"date"`
}
