package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// rankingLimit caps the top-professionals and top-services rankings.
const rankingLimit = 5

// feedLimit caps the recent-activity feed.
const feedLimit = 5

type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository runs the read-only aggregation queries behind the dashboard.
// Every query is tenant-scoped; nothing here takes row locks.
type Repository struct {
	db db
}

// NewRepository creates a repository backed by pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("analytics: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db db) *Repository {
	return &Repository{db: db}
}

// WindowStats returns appointment count and revenue for [from, to) limited
// to the given statuses.
func (r *Repository) WindowStats(ctx context.Context, tenantID string, from, to time.Time, statuses []string) (WindowStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(price_cents), 0)
		FROM appointments
		WHERE tenant_id = $1
		  AND starts_at >= $2 AND starts_at < $3
		  AND status = ANY($4)
	`
	var ws WindowStats
	if err := r.db.QueryRow(ctx, query, tenantID, from, to, statuses).Scan(&ws.Count, &ws.RevenueCents); err != nil {
		return WindowStats{}, fmt.Errorf("analytics: window stats: %w", err)
	}
	return ws, nil
}

// TopProfessionals ranks professionals by completed appointments in
// [from, to), most first. Ties order by name so the ranking is stable.
func (r *Repository) TopProfessionals(ctx context.Context, tenantID string, from, to time.Time) ([]RankedItem, error) {
	query := `
		SELECT p.id, p.name, COUNT(*) AS cnt
		FROM appointments a
		JOIN professionals p ON p.id = a.professional_id
		WHERE a.tenant_id = $1
		  AND a.starts_at >= $2 AND a.starts_at < $3
		  AND a.status = 'completed'
		GROUP BY p.id, p.name
		ORDER BY cnt DESC, p.name ASC
		LIMIT $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, from, to, rankingLimit)
	if err != nil {
		return nil, fmt.Errorf("analytics: top professionals: %w", err)
	}
	defer rows.Close()
	return scanRanking(rows, "top professionals")
}

// TopServices ranks services by completed appointments in [from, to).
// Services no completed appointment referenced never appear.
func (r *Repository) TopServices(ctx context.Context, tenantID string, from, to time.Time) ([]RankedItem, error) {
	query := `
		SELECT s.id, s.name, COUNT(*) AS cnt
		FROM appointment_services aps
		JOIN appointments a ON a.id = aps.appointment_id
		JOIN services s ON s.id = aps.service_id
		WHERE a.tenant_id = $1
		  AND a.starts_at >= $2 AND a.starts_at < $3
		  AND a.status = 'completed'
		GROUP BY s.id, s.name
		ORDER BY cnt DESC, s.name ASC
		LIMIT $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, from, to, rankingLimit)
	if err != nil {
		return nil, fmt.Errorf("analytics: top services: %w", err)
	}
	defer rows.Close()
	return scanRanking(rows, "top services")
}

func scanRanking(rows pgx.Rows, what string) ([]RankedItem, error) {
	items := make([]RankedItem, 0, rankingLimit)
	for rows.Next() {
		var it RankedItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Count); err != nil {
			return nil, fmt.Errorf("analytics: scan %s: %w", what, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: %s rows: %w", what, err)
	}
	return items, nil
}

// HourCounts returns the per-hour appointment counts for [from, to),
// excluding canceled appointments. Hours are extracted in the given
// timezone so the buckets line up with the tenant's business day.
func (r *Repository) HourCounts(ctx context.Context, tenantID string, from, to time.Time, timezone string) (map[int]int64, error) {
	query := `
		SELECT EXTRACT(HOUR FROM starts_at AT TIME ZONE $4)::int AS hour, COUNT(*)
		FROM appointments
		WHERE tenant_id = $1
		  AND starts_at >= $2 AND starts_at < $3
		  AND status <> 'canceled'
		GROUP BY hour
		ORDER BY hour
	`
	rows, err := r.db.Query(ctx, query, tenantID, from, to, timezone)
	if err != nil {
		return nil, fmt.Errorf("analytics: hour counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int64)
	for rows.Next() {
		var hour int
		var count int64
		if err := rows.Scan(&hour, &count); err != nil {
			return nil, fmt.Errorf("analytics: scan hour count: %w", err)
		}
		counts[hour] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: hour count rows: %w", err)
	}
	return counts, nil
}

// RecentFeed returns the most-recently-dated appointments of any status,
// enriched with client, professional and service names.
func (r *Repository) RecentFeed(ctx context.Context, tenantID string) ([]FeedItem, error) {
	query := `
		SELECT a.id,
		       u.name,
		       COALESCE(p.name, 'unassigned'),
		       COALESCE(string_agg(s.name, ', ' ORDER BY aps.position), ''),
		       a.status,
		       a.starts_at
		FROM appointments a
		JOIN users u ON u.id = a.client_id
		LEFT JOIN professionals p ON p.id = a.professional_id
		LEFT JOIN appointment_services aps ON aps.appointment_id = a.id
		LEFT JOIN services s ON s.id = aps.service_id
		WHERE a.tenant_id = $1
		GROUP BY a.id, u.name, p.name, a.status, a.starts_at
		ORDER BY a.starts_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, tenantID, feedLimit)
	if err != nil {
		return nil, fmt.Errorf("analytics: recent feed: %w", err)
	}
	defer rows.Close()

	items := make([]FeedItem, 0, feedLimit)
	for rows.Next() {
		var it FeedItem
		if err := rows.Scan(&it.ID, &it.ClientName, &it.ProfessionalName, &it.ServiceNames, &it.Status, &it.StartsAt); err != nil {
			return nil, fmt.Errorf("analytics: scan feed item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: feed rows: %w", err)
	}
	return items, nil
}

// PendingCount counts the tenant's pending appointments with no time bound.
func (r *Repository) PendingCount(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM appointments WHERE tenant_id = $1 AND status = 'pending'`
	if err := r.db.QueryRow(ctx, query, tenantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("analytics: pending count: %w", err)
	}
	return count, nil
}

// ActiveClientsCount counts users holding the client role for the tenant.
func (r *Repository) ActiveClientsCount(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM users WHERE tenant_id = $1 AND role = 'client'`
	if err := r.db.QueryRow(ctx, query, tenantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("analytics: active clients count: %w", err)
	}
	return count, nil
}
