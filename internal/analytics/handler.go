package analytics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/agendly/booking-platform/internal/tenancy"
	"github.com/agendly/booking-platform/pkg/logging"
)

// Handler serves the dashboard snapshot.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates the analytics HTTP handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger.Component("analytics.http")}
}

// Stats handles GET /api/analytics/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "missing tenant context"}`, http.StatusBadRequest)
		return
	}

	snap, err := h.svc.ComputeStats(r.Context(), tenantID, time.Now())
	if err != nil {
		h.logger.Error("failed to compute stats", "tenant_id", tenantID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		h.logger.Error("failed to encode stats", "tenant_id", tenantID, "error", err)
	}
}
