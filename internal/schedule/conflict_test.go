package schedule

import (
	"testing"
	"time"
)

func TestFilterConflicts_RemovesOccupied(t *testing.T) {
	// Wednesday 09:00–18:00, one confirmed appointment at 10:00.
	w := Window{Open: MustClock("09:00"), Close: MustClock("18:00")}
	candidates := Generate(w, 30*time.Minute)

	date := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) // a different day

	got := FilterConflicts(candidates, date, []ClockTime{MustClock("10:00")}, now)
	if len(got) != 17 {
		t.Fatalf("got %d slots, want 17", len(got))
	}
	for _, s := range got {
		if s == MustClock("10:00") {
			t.Error("occupied slot 10:00 still present")
		}
	}
}

func TestFilterConflicts_PastSlotsOnToday(t *testing.T) {
	candidates := []ClockTime{MustClock("09:00"), MustClock("09:30"), MustClock("10:00"), MustClock("10:30")}
	date := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

	got := FilterConflicts(candidates, date, nil, now)

	// 10:00 equals now and is therefore past; only 10:30 survives.
	if len(got) != 1 || got[0] != MustClock("10:30") {
		t.Fatalf("got %v, want [10:30]", got)
	}
}

func TestFilterConflicts_FutureDateKeepsMorningSlots(t *testing.T) {
	candidates := []ClockTime{MustClock("09:00"), MustClock("09:30")}
	date := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 4, 16, 0, 0, 0, time.UTC)

	got := FilterConflicts(candidates, date, nil, now)
	if len(got) != 2 {
		t.Fatalf("got %v, want both slots for a future date", got)
	}
}

func TestFilterConflicts_PreservesOrder(t *testing.T) {
	candidates := Generate(Window{Open: MustClock("09:00"), Close: MustClock("12:00")}, 30*time.Minute)
	date := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	got := FilterConflicts(candidates, date, []ClockTime{MustClock("10:30")}, now)
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("output not chronological: %v", got)
		}
	}
}

func TestFilterConflicts_Idempotent(t *testing.T) {
	candidates := Generate(Window{Open: MustClock("09:00"), Close: MustClock("18:00")}, 30*time.Minute)
	date := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 4, 11, 15, 0, 0, time.UTC)
	occupied := []ClockTime{MustClock("14:00"), MustClock("15:30")}

	first := FilterConflicts(candidates, date, occupied, now)
	second := FilterConflicts(candidates, date, occupied, now)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("results differ at %d: %v vs %v", i, first[i], second[i])
		}
	}
}
