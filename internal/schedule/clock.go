// Package schedule turns working-hours configuration and existing bookings
// into the set of bookable start times for a calendar date. It is pure
// computation: all I/O stays with the callers.
package schedule

import (
	"fmt"
	"time"
)

// ClockTime is a time of day expressed as minutes since midnight.
type ClockTime int

// ParseClock parses an "HH:MM" string into a ClockTime.
func ParseClock(v string) (ClockTime, error) {
	if v == "" {
		return 0, fmt.Errorf("schedule: empty clock")
	}
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("schedule: parse clock %q: %w", v, err)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

// MustClock parses an "HH:MM" string and panics on failure. Intended for
// constants and tests.
func MustClock(v string) ClockTime {
	c, err := ParseClock(v)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf extracts the time of day from an instant.
func ClockOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

// Hour returns the hour component (0–23).
func (c ClockTime) Hour() int { return int(c) / 60 }

// Minute returns the minute component (0–59).
func (c ClockTime) Minute() int { return int(c) % 60 }

// String formats the clock time as "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// At anchors the clock time onto a calendar date in the given location.
func (c ClockTime) At(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), 0, 0, loc)
}

// Window is a half-open [Open, Close) working window within one day.
type Window struct {
	Open  ClockTime
	Close ClockTime
}

// IsZero reports whether the window is unset.
func (w Window) IsZero() bool { return w.Open == 0 && w.Close == 0 }
