// Package notify is the outbound notification boundary. Every successful
// booking and every status transition emits an event; templating and
// delivery (email, SMS, push) live outside this service.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agendly/booking-platform/pkg/logging"
)

// Event describes an appointment lifecycle notification.
type Event struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	TenantID      string    `json:"tenant_id"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Emitter publishes appointment events to the notification layer.
type Emitter interface {
	BookingCreated(ctx context.Context, evt Event)
	StatusChanged(ctx context.Context, evt Event)
}

// LogEmitter records events to the structured log. Used until a real
// delivery pipeline is attached, and as the default in development.
type LogEmitter struct {
	logger *logging.Logger
}

// NewLogEmitter creates an emitter writing to the given logger.
func NewLogEmitter(logger *logging.Logger) *LogEmitter {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogEmitter{logger: logger.Component("notify")}
}

func (e *LogEmitter) BookingCreated(ctx context.Context, evt Event) {
	e.logger.Info("booking created",
		"appointment_id", evt.AppointmentID,
		"tenant_id", evt.TenantID,
		"status", evt.Status,
	)
}

func (e *LogEmitter) StatusChanged(ctx context.Context, evt Event) {
	e.logger.Info("appointment status changed",
		"appointment_id", evt.AppointmentID,
		"tenant_id", evt.TenantID,
		"status", evt.Status,
	)
}

// Nop discards all events.
type Nop struct{}

func (Nop) BookingCreated(ctx context.Context, evt Event) {}
func (Nop) StatusChanged(ctx context.Context, evt Event)  {}
