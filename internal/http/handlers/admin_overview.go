package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/agendly/booking-platform/pkg/logging"
)

// AdminOverviewHandler serves the platform-wide back-office overview. It
// reads through database/sql rather than the pgx pool because the admin
// surface shares a reporting connection with external BI tooling.
type AdminOverviewHandler struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewAdminOverviewHandler creates a new admin overview handler.
func NewAdminOverviewHandler(db *sql.DB, logger *logging.Logger) *AdminOverviewHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminOverviewHandler{db: db, logger: logger}
}

// TenantOverview is one tenant's row in the overview.
type TenantOverview struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Appointments int    `json:"appointments"`
	Upcoming     int    `json:"upcoming"`
	Canceled     int    `json:"canceled"`
	RevenueCents int64  `json:"revenue_cents"`
}

// OverviewResponse is the platform-wide overview payload.
type OverviewResponse struct {
	Tenants           []TenantOverview `json:"tenants"`
	TotalTenants      int              `json:"total_tenants"`
	TotalAppointments int              `json:"total_appointments"`
	TotalRevenueCents int64            `json:"total_revenue_cents"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

// GetOverview returns booking totals per tenant.
// GET /admin/overview
func (h *AdminOverviewHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT t.id, t.name,
		       COUNT(a.id),
		       COUNT(a.id) FILTER (WHERE a.starts_at > $1 AND a.status <> 'canceled'),
		       COUNT(a.id) FILTER (WHERE a.status = 'canceled'),
		       COALESCE(SUM(a.price_cents) FILTER (WHERE a.status = 'completed'), 0)
		FROM tenants t
		LEFT JOIN appointments a ON a.tenant_id = t.id
		GROUP BY t.id, t.name
		ORDER BY t.name`, now)
	if err != nil {
		h.logger.Error("admin overview query failed", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	resp := OverviewResponse{
		Tenants:     make([]TenantOverview, 0),
		GeneratedAt: now.UTC(),
	}
	for rows.Next() {
		var t TenantOverview
		if err := rows.Scan(&t.ID, &t.Name, &t.Appointments, &t.Upcoming, &t.Canceled, &t.RevenueCents); err != nil {
			h.logger.Error("admin overview scan failed", "error", err)
			http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
			return
		}
		resp.Tenants = append(resp.Tenants, t)
		resp.TotalTenants++
		resp.TotalAppointments += t.Appointments
		resp.TotalRevenueCents += t.RevenueCents
	}
	if err := rows.Err(); err != nil {
		h.logger.Error("admin overview rows failed", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("admin overview encode failed", "error", err)
	}
}
