// Package subscriptions tracks per-client plan credits. Consuming and
// restoring credits always happens inside the caller's appointment
// transaction so that credit movement and the appointment write commit or
// roll back together.
package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNoActiveSubscription is returned when the client has no active
	// subscription in the tenant.
	ErrNoActiveSubscription = errors.New("subscriptions: no active subscription")

	// ErrInsufficientCredit is returned when the active subscription has no
	// credits left.
	ErrInsufficientCredit = errors.New("subscriptions: insufficient credit")

	// ErrNotFound is returned when the subscription id does not exist.
	ErrNotFound = errors.New("subscriptions: subscription not found")
)

// Status enumerates subscription lifecycle states.
type Status string

const (
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
	StatusCanceled Status = "canceled"
)

// Subscription is a client's prepaid plan within a tenant.
type Subscription struct {
	ID               uuid.UUID `json:"id"`
	TenantID         string    `json:"tenant_id"`
	ClientID         uuid.UUID `json:"client_id"`
	PlanName         string    `json:"plan_name"`
	Status           Status    `json:"status"`
	CreditsRemaining int       `json:"credits_remaining"`
	StartsAt         time.Time `json:"starts_at"`
	EndsAt           time.Time `json:"ends_at"`
}

// Tx is the slice of pgx.Tx the ledger needs. Satisfied by pgx.Tx and by
// pgxmock in tests.
type Tx interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Ledger applies credit movements against the subscriptions table.
type Ledger struct{}

// NewLedger creates a credit ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Consume locks the client's active subscription, verifies it has credit
// and decrements it by one. Returns the subscription id so the caller can
// stamp the appointment for a later refund.
func (l *Ledger) Consume(ctx context.Context, tx Tx, tenantID string, clientID uuid.UUID) (uuid.UUID, error) {
	query := `
		SELECT id, credits_remaining
		FROM subscriptions
		WHERE tenant_id = $1 AND client_id = $2 AND status = 'active'
		ORDER BY ends_at DESC
		LIMIT 1
		FOR UPDATE
	`
	var (
		id      uuid.UUID
		credits int
	)
	if err := tx.QueryRow(ctx, query, tenantID, clientID).Scan(&id, &credits); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrNoActiveSubscription
		}
		return uuid.Nil, fmt.Errorf("subscriptions: lock subscription: %w", err)
	}
	if credits <= 0 {
		return uuid.Nil, ErrInsufficientCredit
	}

	tag, err := tx.Exec(ctx, `UPDATE subscriptions SET credits_remaining = credits_remaining - 1 WHERE id = $1`, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("subscriptions: consume credit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return uuid.Nil, ErrNotFound
	}
	return id, nil
}

// Restore returns one credit to the subscription, typically after a
// cancellation of a plan-credit appointment.
func (l *Ledger) Restore(ctx context.Context, tx Tx, subscriptionID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `UPDATE subscriptions SET credits_remaining = credits_remaining + 1 WHERE id = $1`, subscriptionID)
	if err != nil {
		return fmt.Errorf("subscriptions: restore credit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
