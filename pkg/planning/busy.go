package planning

import (
	"time"

	"github.com/dayflow-app/dayflow-backend/pkg/date"
)

// BusyBlocks converts calendar events and existing placements into blocked
// intervals, each widened by the minimum gap on both sides. Overlapping
// blocks are not merged, subtraction handles them one by one.
func BusyBlocks(events []*Event, placements []*Placement, minGap time.Duration) []date.Timespan {
	var blocks []date.Timespan

	for _, event := range events {
		if !event.Date.IsStartBeforeEnd() {
			continue
		}

		blocks = append(blocks, padded(event.Date, minGap))
	}

	for _, placement := range placements {
		blocks = append(blocks, padded(placement.Timespan(), minGap))
	}

	return blocks
}

func padded(span date.Timespan, gap time.Duration) date.Timespan {
	return date.Timespan{Start: span.Start.Add(-gap), End: span.End.Add(gap)}
}
