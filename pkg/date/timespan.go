package date

import (
	"fmt"
	"sort"
	"time"
)

// TimeBeforeOrEquals returns whether t1 is before or equal t2
func TimeBeforeOrEquals(t1 time.Time, t2 time.Time) bool {
	ts := t1.UnixNano()
	us := t2.UnixNano()
	return ts <= us
}

// TimeAfterOrEquals returns whether t1 is after or equal t2
func TimeAfterOrEquals(t1 time.Time, t2 time.Time) bool {
	ts := t1.UnixNano()
	us := t2.UnixNano()
	return ts >= us
}

// Timespan is a half-open interval [Start, End) between two instants
type Timespan struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end"`
}

// Duration simply gets the duration of a Timespan
func (t *Timespan) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// IsStartBeforeEnd checks if start is earlier than end
func (t *Timespan) IsStartBeforeEnd() bool {
	return t.Start.Before(t.End)
}

// String prints a timespan string
func (t *Timespan) String() string {
	return fmt.Sprintf("%s - %s", t.Start, t.End)
}

// IntersectsWith checks if one timespan intersects with another; touching spans don't intersect
func (t *Timespan) IntersectsWith(timespan Timespan) bool {
	return t.Start.Before(timespan.End) && t.End.After(timespan.Start)
}

// Contains checks if one timespan t contains another Timespan timespan
func (t *Timespan) Contains(timespan Timespan) bool {
	return TimeAfterOrEquals(timespan.Start, t.Start) &&
		TimeBeforeOrEquals(timespan.End, t.End)
}

// In changes the location on a Timespan
func (t *Timespan) In(location *time.Location) Timespan {
	t.Start = t.Start.In(location)
	t.End = t.End.In(location)

	return *t
}

// SlotList is an ordered list of disjoint free Timespans. All mutating
// operations keep the entries sorted by start, non overlapping and wider
// than zero, so a scan from the front always yields the earliest slots.
type SlotList []Timespan

// Clone returns an independent copy of the SlotList
func (l SlotList) Clone() SlotList {
	if l == nil {
		return nil
	}

	cloned := make(SlotList, len(l))
	copy(cloned, l)
	return cloned
}

// Sort orders the slots by their start time, keeping equal starts stable
func (l SlotList) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Start.Before(l[j].Start)
	})
}

// Total sums the duration of all slots
func (l SlotList) Total() time.Duration {
	var total time.Duration
	for _, slot := range l {
		total += slot.Duration()
	}
	return total
}

// ClipToRange returns the portions of the slots that overlap [start, end),
// cut down to that range; slots fully outside are dropped
func (l SlotList) ClipToRange(start time.Time, end time.Time) SlotList {
	var clipped SlotList

	window := Timespan{Start: start, End: end}
	if !window.IsStartBeforeEnd() {
		return clipped
	}

	for _, slot := range l {
		if !slot.IntersectsWith(window) {
			continue
		}

		if slot.Start.Before(start) {
			slot.Start = start
		}
		if slot.End.After(end) {
			slot.End = end
		}

		clipped = append(clipped, slot)
	}

	return clipped
}

// Subtract removes the blocked timespan from every slot in the list. A slot is
// left untouched, removed, trimmed at one edge or split into two depending on
// how the block overlaps it. The split inserts the right fragment directly
// after the trimmed left one, so the scan continues behind both.
func (l *SlotList) Subtract(block Timespan) {
	if !block.IsStartBeforeEnd() {
		return
	}

	slots := *l

	for index := 0; index < len(slots); index++ {
		slot := slots[index]

		if !slot.IntersectsWith(block) {
			continue
		}

		// Block covers the whole slot
		if TimeBeforeOrEquals(block.Start, slot.Start) && TimeAfterOrEquals(block.End, slot.End) {
			slots = append(slots[:index], slots[index+1:]...)
			index--
			continue
		}

		// Block lies strictly inside the slot, the slot splits in two
		if block.Start.After(slot.Start) && block.End.Before(slot.End) {
			right := Timespan{Start: block.End, End: slot.End}
			slots[index].End = block.Start

			slots = append(slots, Timespan{})
			copy(slots[index+2:], slots[index+1:])
			slots[index+1] = right

			index++
			continue
		}

		// Block overlaps exactly one edge
		if block.Start.After(slot.Start) {
			slots[index].End = block.Start
		} else {
			slots[index].Start = block.End
		}
	}

	*l = slots
}

// FindFit returns the slice of the earliest slot that can hold the wanted
// duration, or nil if no slot is wide enough. The list is not modified.
func (l SlotList) FindFit(duration time.Duration) *Timespan {
	if duration <= 0 {
		return nil
	}

	for _, slot := range l {
		if slot.Duration() >= duration {
			return &Timespan{Start: slot.Start, End: slot.Start.Add(duration)}
		}
	}

	return nil
}
