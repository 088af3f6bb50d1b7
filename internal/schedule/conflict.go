package schedule

import "time"

// FilterConflicts removes occupied and past candidates while preserving
// order. occupied holds the start times of non-canceled appointments on
// date. When date falls on now's calendar day, candidates at or before
// now's time of day are dropped as well: a slot equal to "now" is already
// past, booking must start strictly in the future.
//
// date and now must be expressed in the same location.
func FilterConflicts(candidates []ClockTime, date time.Time, occupied []ClockTime, now time.Time) []ClockTime {
	taken := make(map[ClockTime]struct{}, len(occupied))
	for _, o := range occupied {
		taken[o] = struct{}{}
	}

	sameDay := date.Year() == now.Year() && date.Month() == now.Month() && date.Day() == now.Day()
	cutoff := ClockOf(now)

	available := make([]ClockTime, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := taken[c]; ok {
			continue
		}
		if sameDay && c <= cutoff {
			continue
		}
		available = append(available, c)
	}
	return available
}
