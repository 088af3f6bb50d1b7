package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the statement surface repositories run on. Satisfied by
// *pgxpool.Pool, pgx.Tx and pgxmock.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides persistence for appointments.
type Repository struct {
	db DBTX
}

// NewRepository creates a repository backed by pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository running its statements on the transaction.
func (r *Repository) WithTx(tx DBTX) *Repository {
	return &Repository{db: tx}
}

// OccupiedStarts returns the start instants of non-canceled appointments in
// [dayStart, dayEnd) for the tenant, optionally filtered by professional.
func (r *Repository) OccupiedStarts(ctx context.Context, tenantID string, professionalID *uuid.UUID, dayStart, dayEnd time.Time) ([]time.Time, error) {
	query := `
		SELECT starts_at
		FROM appointments
		WHERE tenant_id = $1
		  AND starts_at >= $2 AND starts_at < $3
		  AND status <> 'canceled'
	`
	args := []any{tenantID, dayStart, dayEnd}
	if professionalID != nil {
		query += ` AND professional_id = $4`
		args = append(args, *professionalID)
	}
	query += ` ORDER BY starts_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: query occupied starts: %w", err)
	}
	defer rows.Close()

	var starts []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("appointments: scan occupied start: %w", err)
		}
		starts = append(starts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate occupied starts: %w", err)
	}
	return starts, nil
}

// Insert writes the appointment and its ordered service links. A
// unique-index violation on the slot tuple surfaces as ErrSlotTaken.
func (r *Repository) Insert(ctx context.Context, a *Appointment) error {
	query := `
		INSERT INTO appointments
			(id, tenant_id, client_id, professional_id, location_id, starts_at,
			 duration_minutes, price_cents, status, payment_method, gateway, subscription_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		a.ID,
		a.TenantID,
		a.ClientID,
		a.ProfessionalID,
		a.LocationID,
		a.StartsAt,
		a.DurationMinutes,
		a.PriceCents,
		a.Status,
		a.PaymentMethod,
		nullableText(a.Gateway),
		a.SubscriptionID,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotTaken
		}
		return fmt.Errorf("appointments: insert: %w", err)
	}

	for i, serviceID := range a.ServiceIDs {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO appointment_services (appointment_id, service_id, position) VALUES ($1, $2, $3)`,
			a.ID, serviceID, i,
		); err != nil {
			return fmt.Errorf("appointments: link service: %w", err)
		}
	}
	return nil
}

// Get loads an appointment scoped to the tenant.
func (r *Repository) Get(ctx context.Context, tenantID string, id uuid.UUID) (*Appointment, error) {
	return r.get(ctx, tenantID, id, false)
}

// GetForUpdate loads an appointment with a row lock. Only valid inside a
// transaction.
func (r *Repository) GetForUpdate(ctx context.Context, tenantID string, id uuid.UUID) (*Appointment, error) {
	return r.get(ctx, tenantID, id, true)
}

func (r *Repository) get(ctx context.Context, tenantID string, id uuid.UUID, forUpdate bool) (*Appointment, error) {
	query := `
		SELECT client_id, professional_id, location_id, starts_at, duration_minutes,
		       price_cents, status, payment_method, gateway, subscription_id, created_at, updated_at
		FROM appointments
		WHERE id = $1 AND tenant_id = $2
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	a := &Appointment{ID: id, TenantID: tenantID}
	var gateway *string
	err := r.db.QueryRow(ctx, query, id, tenantID).Scan(
		&a.ClientID,
		&a.ProfessionalID,
		&a.LocationID,
		&a.StartsAt,
		&a.DurationMinutes,
		&a.PriceCents,
		&a.Status,
		&a.PaymentMethod,
		&gateway,
		&a.SubscriptionID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: load: %w", err)
	}
	if gateway != nil {
		a.Gateway = *gateway
	}

	rows, err := r.db.Query(ctx,
		`SELECT service_id FROM appointment_services WHERE appointment_id = $1 ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("appointments: query services: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sid uuid.UUID
		if err := rows.Scan(&sid); err != nil {
			return nil, fmt.Errorf("appointments: scan service link: %w", err)
		}
		a.ServiceIDs = append(a.ServiceIDs, sid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate service links: %w", err)
	}
	return a, nil
}

// UpdateStatus persists a status change for a tenant-scoped appointment.
func (r *Repository) UpdateStatus(ctx context.Context, tenantID string, id uuid.UUID, to Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE appointments SET status = $3, updated_at = now() WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, to,
	)
	if err != nil {
		return fmt.Errorf("appointments: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkDeleteNonCompleted removes the given appointments except the ones in
// completed status, which are kept to protect revenue history.
func (r *Repository) BulkDeleteNonCompleted(ctx context.Context, tenantID string, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx,
		`DELETE FROM appointments WHERE tenant_id = $1 AND id = ANY($2) AND status <> 'completed'`,
		tenantID, ids,
	)
	if err != nil {
		return 0, fmt.Errorf("appointments: bulk delete: %w", err)
	}
	return tag.RowsAffected(), nil
}

func nullableText(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
