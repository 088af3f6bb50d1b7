package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agendly/booking-platform/internal/schedule"
)

var (
	// ErrServiceNotFound is returned when a service id does not resolve
	// inside the tenant.
	ErrServiceNotFound = errors.New("catalog: service not found for tenant")

	// ErrProfessionalNotFound is returned when a professional id does not
	// resolve inside the tenant.
	ErrProfessionalNotFound = errors.New("catalog: professional not found for tenant")

	// ErrLocationNotFound is returned when a location id does not resolve
	// inside the tenant.
	ErrLocationNotFound = errors.New("catalog: location not found for tenant")
)

type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository reads catalog entities scoped by tenant.
type Repository struct {
	db db
}

// NewRepository creates a repository backed by pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("catalog: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db db) *Repository {
	return &Repository{db: db}
}

// ServicesByIDs resolves the given service ids within the tenant, keeping
// the request order. Any id that does not resolve yields
// ErrServiceNotFound.
func (r *Repository) ServicesByIDs(ctx context.Context, tenantID string, ids []uuid.UUID) ([]Service, error) {
	if len(ids) == 0 {
		return nil, ErrServiceNotFound
	}
	query := `
		SELECT id, name, duration_minutes, price_cents, active
		FROM services
		WHERE tenant_id = $1 AND id = ANY($2)
	`
	rows, err := r.db.Query(ctx, query, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog: query services: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]Service, len(ids))
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.Name, &s.DurationMinutes, &s.PriceCents, &s.Active); err != nil {
			return nil, fmt.Errorf("catalog: scan service: %w", err)
		}
		s.TenantID = tenantID
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate services: %w", err)
	}

	out := make([]Service, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, ErrServiceNotFound
		}
		out = append(out, s)
	}
	return out, nil
}

// GetProfessional loads a professional scoped to the tenant.
func (r *Repository) GetProfessional(ctx context.Context, tenantID string, id uuid.UUID) (*Professional, error) {
	query := `SELECT id, name, active FROM professionals WHERE id = $1 AND tenant_id = $2`
	var p Professional
	if err := r.db.QueryRow(ctx, query, id, tenantID).Scan(&p.ID, &p.Name, &p.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfessionalNotFound
		}
		return nil, fmt.Errorf("catalog: load professional: %w", err)
	}
	p.TenantID = tenantID
	return &p, nil
}

// WorkingHours loads the professional's weekday windows in resolver form.
// Entries with unparsable clocks are skipped.
func (r *Repository) WorkingHours(ctx context.Context, professionalID uuid.UUID) ([]schedule.WeekdayWindow, error) {
	query := `
		SELECT weekday, opens_at, closes_at
		FROM working_hours_entries
		WHERE professional_id = $1
		ORDER BY weekday
	`
	rows, err := r.db.Query(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("catalog: query working hours: %w", err)
	}
	defer rows.Close()

	var windows []schedule.WeekdayWindow
	for rows.Next() {
		var (
			weekday          int
			opensAt, closesAt string
		)
		if err := rows.Scan(&weekday, &opensAt, &closesAt); err != nil {
			return nil, fmt.Errorf("catalog: scan working hours: %w", err)
		}
		open, err := schedule.ParseClock(opensAt)
		if err != nil {
			continue
		}
		close, err := schedule.ParseClock(closesAt)
		if err != nil {
			continue
		}
		windows = append(windows, schedule.WeekdayWindow{
			Weekday: time.Weekday(weekday),
			Window:  schedule.Window{Open: open, Close: close},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate working hours: %w", err)
	}
	return windows, nil
}

// LocationExists checks the location id within the tenant.
func (r *Repository) LocationExists(ctx context.Context, tenantID string, id uuid.UUID) error {
	query := `SELECT 1 FROM locations WHERE id = $1 AND tenant_id = $2`
	var one int
	if err := r.db.QueryRow(ctx, query, id, tenantID).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLocationNotFound
		}
		return fmt.Errorf("catalog: check location: %w", err)
	}
	return nil
}
