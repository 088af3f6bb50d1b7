package appointments

import "errors"

var (
	// ErrInvalidService is returned when a requested service id does not
	// resolve inside the tenant.
	ErrInvalidService = errors.New("appointments: invalid service for tenant")

	// ErrSlotInPast is returned when the requested start instant is not
	// strictly in the future.
	ErrSlotInPast = errors.New("appointments: slot is in the past")

	// ErrSlotTaken is returned when the commit-time re-check finds the slot
	// occupied. Expected under concurrent load, not exceptional.
	ErrSlotTaken = errors.New("appointments: slot already taken")

	// ErrNoCredit is returned when a plan-credit booking finds no active
	// subscription with credit remaining.
	ErrNoCredit = errors.New("appointments: no plan credit available")

	// ErrGatewayNotConfigured is returned when an online booking names a
	// gateway the tenant has not enabled.
	ErrGatewayNotConfigured = errors.New("appointments: payment gateway not configured")

	// ErrInvalidTransition is returned for an illegal status change.
	ErrInvalidTransition = errors.New("appointments: invalid status transition")

	// ErrNotFound is returned when the appointment does not exist in the
	// tenant.
	ErrNotFound = errors.New("appointments: appointment not found")
)
