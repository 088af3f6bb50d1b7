package schedule

import "time"

// DefaultGranularity is the slot step used when none is configured.
const DefaultGranularity = 30 * time.Minute

// Generate produces candidate start times inside the window: Open, stepping
// by granularity, strictly below Close. Only the start time is checked
// against closing; a service may run past the window and that is accepted
// business behaviour.
func Generate(w Window, granularity time.Duration) []ClockTime {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}
	step := ClockTime(granularity / time.Minute)
	if step <= 0 || w.Close <= w.Open {
		return nil
	}
	slots := make([]ClockTime, 0, int((w.Close-w.Open)/step))
	for s := w.Open; s < w.Close; s += step {
		slots = append(slots, s)
	}
	return slots
}
