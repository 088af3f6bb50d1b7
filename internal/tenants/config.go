// Package tenants loads per-tenant configuration: working hours, enabled
// payment gateways and optional platform modules. The configuration is
// stored as a JSON document on the tenant row and deserialized into typed
// structs with named fields.
package tenants

import (
	"time"

	"github.com/agendly/booking-platform/internal/schedule"
)

// WorkingHoursConfig is the tenant-wide default schedule: one open/close
// window shared by every active weekday.
type WorkingHoursConfig struct {
	Open     string `json:"open"`  // "09:00" in 24-hour format
	Close    string `json:"close"` // "18:00" in 24-hour format
	Weekdays []int  `json:"weekdays"` // 0=Sunday … 6=Saturday
}

// PaymentConfig lists the online gateways the tenant accepts.
type PaymentConfig struct {
	EnabledGateways []string `json:"enabled_gateways,omitempty"`
}

// ModulesConfig toggles optional platform features for the tenant.
type ModulesConfig struct {
	Subscriptions bool `json:"subscriptions"`
	Analytics     bool `json:"analytics"`
	Locations     bool `json:"locations"`
}

// Config is the typed tenant configuration document.
type Config struct {
	TenantID     string             `json:"tenant_id"`
	Name         string             `json:"name"`
	Currency     string             `json:"currency"`
	Timezone     string             `json:"timezone"` // e.g., "America/Sao_Paulo"
	WorkingHours WorkingHoursConfig `json:"working_hours"`
	Payments     PaymentConfig      `json:"payments"`
	Modules      ModulesConfig      `json:"modules"`
}

// DefaultConfig returns the configuration applied to tenants that have not
// customised anything yet.
func DefaultConfig(tenantID string) *Config {
	return &Config{
		TenantID: tenantID,
		Name:     "Business",
		Currency: "USD",
		Timezone: "UTC",
		WorkingHours: WorkingHoursConfig{
			Open:     "09:00",
			Close:    "18:00",
			Weekdays: []int{1, 2, 3, 4, 5},
		},
		Modules: ModulesConfig{
			Subscriptions: true,
			Analytics:     true,
			Locations:     true,
		},
	}
}

// GatewayEnabled reports whether the tenant accepts the given online
// gateway.
func (c *Config) GatewayEnabled(gateway string) bool {
	if c == nil {
		return false
	}
	for _, g := range c.Payments.EnabledGateways {
		if g == gateway {
			return true
		}
	}
	return false
}

// Location resolves the tenant timezone, falling back to UTC on a missing
// or invalid name.
func (c *Config) Location() *time.Location {
	if c == nil || c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ScheduleHours converts the working-hours document into the resolver's
// input. A config with unparsable clocks yields a zero value, which the
// resolver treats as unconfigured.
func (c *Config) ScheduleHours() schedule.TenantHours {
	if c == nil || len(c.WorkingHours.Weekdays) == 0 {
		return schedule.TenantHours{}
	}
	open, err := schedule.ParseClock(c.WorkingHours.Open)
	if err != nil {
		return schedule.TenantHours{}
	}
	close, err := schedule.ParseClock(c.WorkingHours.Close)
	if err != nil {
		return schedule.TenantHours{}
	}
	days := make(map[time.Weekday]bool, len(c.WorkingHours.Weekdays))
	for _, d := range c.WorkingHours.Weekdays {
		if d >= 0 && d <= 6 {
			days[time.Weekday(d)] = true
		}
	}
	return schedule.TenantHours{
		Window:   schedule.Window{Open: open, Close: close},
		Weekdays: days,
	}
}
