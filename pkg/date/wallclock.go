package date

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayFormat is the layout for ISO calendar dates
const DayFormat = "2006-01-02"

// MaxClockCoercion bounds how far a wall-clock time that falls into a DST gap
// may be moved forward before resolution fails
const MaxClockCoercion = 180 * time.Minute

// TimezoneResolutionError is returned when a wall-clock time cannot be mapped
// to a real instant in its zone, even after moving it past a DST gap
type TimezoneResolutionError struct {
	Zone  string
	Day   string
	Clock string
}

func (e *TimezoneResolutionError) Error() string {
	return fmt.Sprintf("wall time %s on %s cannot be resolved in zone %s", e.Clock, e.Day, e.Zone)
}

// NormalizeZone returns the zone identifier unchanged if it is a loadable IANA
// zone, otherwise "UTC". Unrecognized zones are never an error.
func NormalizeZone(zone string) string {
	if zone == "" {
		return "UTC"
	}

	if _, err := time.LoadLocation(zone); err != nil {
		return "UTC"
	}

	return zone
}

// LocationOrUTC loads the location for a zone identifier, falling back to UTC
func LocationOrUTC(zone string) *time.Location {
	location, err := time.LoadLocation(NormalizeZone(zone))
	if err != nil {
		return time.UTC
	}

	return location
}

// ParseDay parses an ISO calendar date into midnight UTC of that date
func ParseDay(day string) (time.Time, error) {
	parsed, err := time.Parse(DayFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("day %q is not in YYYY-MM-DD format", day)
	}

	return parsed, nil
}

// ParseClock parses a HH:MM string into minutes from midnight. "24:00" is
// allowed and marks the exclusive end of a day.
func ParseClock(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("clock %q is not in HH:MM format", clock)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 24 {
		return 0, fmt.Errorf("clock %q has an invalid hour", clock)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock %q has an invalid minute", clock)
	}

	if hours == 24 && minutes != 0 {
		return 0, fmt.Errorf("clock %q lies beyond the end of the day", clock)
	}

	return hours*60 + minutes, nil
}

// ResolveWallTime interprets a wall-clock time on a calendar day in the given
// zone and returns the matching absolute instant in UTC. A time inside a DST
// gap is moved forward minute by minute until it exists; if no valid instant
// is found within MaxClockCoercion a TimezoneResolutionError is returned.
func ResolveWallTime(day string, clock string, zone string) (time.Time, error) {
	dayStart, err := ParseDay(day)
	if err != nil {
		return time.Time{}, err
	}

	clockMinutes, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	normalizedZone := NormalizeZone(zone)
	location := LocationOrUTC(normalizedZone)

	for coercion := 0; coercion <= int(MaxClockCoercion/time.Minute); coercion++ {
		wanted := dayStart.Add(time.Duration(clockMinutes+coercion) * time.Minute)
		candidate := time.Date(wanted.Year(), wanted.Month(), wanted.Day(), wanted.Hour(), wanted.Minute(), 0, 0, location)

		// A skipped wall time renormalizes to different clock components
		if candidate.Day() == wanted.Day() && candidate.Hour() == wanted.Hour() && candidate.Minute() == wanted.Minute() {
			return candidate.UTC(), nil
		}
	}

	return time.Time{}, &TimezoneResolutionError{Zone: normalizedZone, Day: day, Clock: clock}
}

// FormatUTC renders an instant as UTC ISO-8601 with seconds precision
func FormatUTC(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// RoundUp rounds an instant up to the next multiple of the interval; instants
// already on a boundary stay unchanged
func RoundUp(t time.Time, interval time.Duration) time.Time {
	rounded := t.Truncate(interval)
	if rounded.Before(t) {
		rounded = rounded.Add(interval)
	}

	return rounded
}
