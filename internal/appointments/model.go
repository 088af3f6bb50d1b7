// Package appointments implements the booking engine: availability
// computation, booking orchestration with commit-time conflict
// re-validation, and the appointment lifecycle state machine.
package appointments

import (
	"time"

	"github.com/google/uuid"

	"github.com/agendly/booking-platform/internal/payments"
	"github.com/agendly/booking-platform/internal/schedule"
)

// Status enumerates the appointment lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// Appointment is the central booking entity. Conflicts are resolved purely
// by start-time equality within (tenant, professional); duration is
// informational.
type Appointment struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        string          `json:"tenant_id"`
	ClientID        uuid.UUID       `json:"client_id"`
	ProfessionalID  *uuid.UUID      `json:"professional_id,omitempty"`
	LocationID      *uuid.UUID      `json:"location_id,omitempty"`
	ServiceIDs      []uuid.UUID     `json:"service_ids"`
	StartsAt        time.Time       `json:"starts_at"`
	DurationMinutes int             `json:"duration_minutes"`
	PriceCents      int64           `json:"price_cents"`
	Status          Status          `json:"status"`
	PaymentMethod   payments.Method `json:"payment_method"`
	Gateway         string          `json:"gateway,omitempty"`
	SubscriptionID  *uuid.UUID      `json:"subscription_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BookingRequest carries a validated booking command into the orchestrator.
// Now is threaded explicitly so tests can fix the instant.
type BookingRequest struct {
	TenantID       string
	ClientID       uuid.UUID
	ServiceIDs     []uuid.UUID
	ProfessionalID *uuid.UUID
	LocationID     *uuid.UUID
	Date           time.Time
	Clock          schedule.ClockTime
	PaymentMethod  payments.Method
	Gateway        string
	Now            time.Time
}
