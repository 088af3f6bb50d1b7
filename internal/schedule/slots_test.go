package schedule

import (
	"testing"
	"time"
)

func TestGenerate_FullDay(t *testing.T) {
	w := Window{Open: MustClock("09:00"), Close: MustClock("18:00")}
	slots := Generate(w, 30*time.Minute)

	if len(slots) != 18 {
		t.Fatalf("got %d slots, want 18", len(slots))
	}
	if slots[0] != MustClock("09:00") {
		t.Errorf("first slot = %v, want 09:00", slots[0])
	}
	if slots[len(slots)-1] != MustClock("17:30") {
		t.Errorf("last slot = %v, want 17:30", slots[len(slots)-1])
	}
	for i, s := range slots {
		if s < w.Open || s >= w.Close {
			t.Errorf("slot %v outside [%v, %v)", s, w.Open, w.Close)
		}
		if i > 0 && s-slots[i-1] != 30 {
			t.Errorf("uneven spacing between %v and %v", slots[i-1], s)
		}
	}
}

func TestGenerate_ExcludesSlotAtClose(t *testing.T) {
	// A candidate landing exactly on the close time must not appear; the
	// interval is half-open.
	w := Window{Open: MustClock("10:00"), Close: MustClock("11:00")}
	slots := Generate(w, 30*time.Minute)
	if len(slots) != 2 || slots[0] != MustClock("10:00") || slots[1] != MustClock("10:30") {
		t.Fatalf("slots = %v, want [10:00 10:30]", slots)
	}
}

func TestGenerate_Degenerate(t *testing.T) {
	if got := Generate(Window{Open: MustClock("18:00"), Close: MustClock("09:00")}, 30*time.Minute); len(got) != 0 {
		t.Errorf("inverted window yielded %v", got)
	}
	if got := Generate(Window{Open: MustClock("09:00"), Close: MustClock("09:00")}, 30*time.Minute); len(got) != 0 {
		t.Errorf("empty window yielded %v", got)
	}
}

func TestGenerate_DefaultGranularity(t *testing.T) {
	w := Window{Open: MustClock("09:00"), Close: MustClock("10:00")}
	if got := Generate(w, 0); len(got) != 2 {
		t.Errorf("zero granularity should fall back to 30m, got %v", got)
	}
}
