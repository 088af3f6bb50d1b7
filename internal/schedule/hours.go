package schedule

import "time"

// Hard fallback used when neither the professional nor the tenant carries
// any working-hours configuration. Unconfigured tenants still get slots.
var defaultWindow = Window{Open: MustClock("09:00"), Close: MustClock("18:00")}

var defaultWeekdays = map[time.Weekday]bool{
	time.Monday:    true,
	time.Tuesday:   true,
	time.Wednesday: true,
	time.Thursday:  true,
	time.Friday:    true,
}

// WeekdayWindow is one professional working-hours entry: a window scoped to
// a single weekday. A professional with entries works only the weekdays
// listed.
type WeekdayWindow struct {
	Weekday time.Weekday
	Window  Window
}

// TenantHours is the tenant-wide default: one window shared by every active
// weekday.
type TenantHours struct {
	Window   Window
	Weekdays map[time.Weekday]bool
}

// Source yields the working window for a weekday. The second return value
// is false when the day is closed; ok is false when the source carries no
// configuration at all and the next source in the chain should be consulted.
type Source interface {
	Hours(weekday time.Weekday) (w Window, open bool, ok bool)
}

// ProfessionalSource resolves hours from per-weekday entries. When at least
// one entry exists, the entries alone govern: a missing weekday means the
// professional is off that day, regardless of tenant defaults.
type ProfessionalSource struct {
	byWeekday map[time.Weekday]Window
}

// NewProfessionalSource builds a source from working-hours entries. A later
// entry for the same weekday wins.
func NewProfessionalSource(entries []WeekdayWindow) *ProfessionalSource {
	s := &ProfessionalSource{byWeekday: make(map[time.Weekday]Window, len(entries))}
	for _, e := range entries {
		s.byWeekday[e.Weekday] = e.Window
	}
	return s
}

func (s *ProfessionalSource) Hours(weekday time.Weekday) (Window, bool, bool) {
	if len(s.byWeekday) == 0 {
		return Window{}, false, false
	}
	w, open := s.byWeekday[weekday]
	return w, open, true
}

// TenantSource resolves hours from the tenant-wide configuration.
type TenantSource struct {
	hours TenantHours
}

func NewTenantSource(hours TenantHours) *TenantSource {
	return &TenantSource{hours: hours}
}

func (s *TenantSource) Hours(weekday time.Weekday) (Window, bool, bool) {
	if s.hours.Window.IsZero() || len(s.hours.Weekdays) == 0 {
		return Window{}, false, false
	}
	if !s.hours.Weekdays[weekday] {
		return Window{}, false, true
	}
	return s.hours.Window, true, true
}

// DefaultSource always applies and yields the fallback window. A zero
// Window means the hard default.
type DefaultSource struct {
	Window Window
}

func (s DefaultSource) Hours(weekday time.Weekday) (Window, bool, bool) {
	if !defaultWeekdays[weekday] {
		return Window{}, false, true
	}
	if s.Window.IsZero() {
		return defaultWindow, true, true
	}
	return s.Window, true, true
}

// Resolver tries an ordered chain of sources and returns the first verdict.
type Resolver struct {
	sources []Source
}

// NewResolver builds the standard chain: professional entries override the
// tenant configuration, which overrides the fallback window. entries may be
// empty, hours may be zero and fallback may be zero; the chain skips
// sources with no configuration.
func NewResolver(entries []WeekdayWindow, hours TenantHours, fallback Window) *Resolver {
	return &Resolver{sources: []Source{
		NewProfessionalSource(entries),
		NewTenantSource(hours),
		DefaultSource{Window: fallback},
	}}
}

// Resolve returns the working window for date, or false when closed.
func (r *Resolver) Resolve(date time.Time) (Window, bool) {
	weekday := date.Weekday()
	for _, src := range r.sources {
		if w, open, ok := src.Hours(weekday); ok {
			return w, open
		}
	}
	return Window{}, false
}
