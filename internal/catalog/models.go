// Package catalog provides the read side of the tenant catalog: services,
// professionals with their weekday working-hours entries, and locations.
// Writes happen in the CRUD layer; the booking engine only reads.
package catalog

import (
	"github.com/google/uuid"
)

// Service is a bookable offering with a fixed duration and price.
type Service struct {
	ID              uuid.UUID `json:"id"`
	TenantID        string    `json:"tenant_id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int64     `json:"price_cents"`
	Active          bool      `json:"active"`
}

// Professional is a staff member appointments can be assigned to.
type Professional struct {
	ID       uuid.UUID `json:"id"`
	TenantID string    `json:"tenant_id"`
	Name     string    `json:"name"`
	Active   bool      `json:"active"`
}

// WorkingHoursEntry is a weekday-scoped open/close window for one
// professional. A professional with any entries works only the weekdays
// listed.
type WorkingHoursEntry struct {
	ProfessionalID uuid.UUID `json:"professional_id"`
	Weekday        int       `json:"weekday"` // 0=Sunday … 6=Saturday
	OpensAt        string    `json:"opens_at"`
	ClosesAt       string    `json:"closes_at"`
}

// Location is a label grouping appointments within a tenant.
type Location struct {
	ID       uuid.UUID `json:"id"`
	TenantID string    `json:"tenant_id"`
	Name     string    `json:"name"`
}
