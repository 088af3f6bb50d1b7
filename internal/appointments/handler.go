package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/agendly/booking-platform/internal/payments"
	"github.com/agendly/booking-platform/internal/schedule"
	"github.com/agendly/booking-platform/internal/tenancy"
	"github.com/agendly/booking-platform/pkg/logging"
)

// Handler exposes the booking engine over HTTP.
type Handler struct {
	svc      *Service
	validate *validator.Validate
	logger   *logging.Logger
}

// NewHandler creates the appointments HTTP handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

type bookRequest struct {
	ClientID       string   `json:"client_id" validate:"required,uuid4"`
	ServiceIDs     []string `json:"service_ids" validate:"required,min=1,dive,uuid4"`
	ProfessionalID string   `json:"professional_id" validate:"omitempty,uuid4"`
	LocationID     string   `json:"location_id" validate:"omitempty,uuid4"`
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string   `json:"time" validate:"required,datetime=15:04"`
	PaymentMethod  string   `json:"payment_method" validate:"required"`
	Gateway        string   `json:"gateway" validate:"omitempty"`
}

type availabilityResponse struct {
	TenantID       string   `json:"tenant_id"`
	ProfessionalID string   `json:"professional_id,omitempty"`
	Date           string   `json:"date"`
	Slots          []string `json:"slots"`
}

// Availability handles GET /api/availability?date=YYYY-MM-DD&professional_id=...
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "missing tenant context")
		return
	}

	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, use YYYY-MM-DD")
		return
	}

	var professionalID *uuid.UUID
	if p := r.URL.Query().Get("professional_id"); p != "" {
		id, err := uuid.Parse(p)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid professional_id")
			return
		}
		professionalID = &id
	}

	slots, err := h.svc.Availability(r.Context(), tenantID, professionalID, date, time.Now())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := availabilityResponse{
		TenantID: tenantID,
		Date:     dateStr,
		Slots:    make([]string, 0, len(slots)),
	}
	if professionalID != nil {
		resp.ProfessionalID = professionalID.String()
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, s.String())
	}
	respondJSON(w, http.StatusOK, resp)
}

// Book handles POST /api/appointments.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "missing tenant context")
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	method, err := payments.ParseMethod(req.PaymentMethod)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unknown payment method")
		return
	}
	clock, err := schedule.ParseClock(req.Time)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid time, use HH:MM")
		return
	}
	date, _ := time.Parse("2006-01-02", req.Date)

	booking := BookingRequest{
		TenantID:      tenantID,
		ClientID:      uuid.MustParse(req.ClientID),
		ServiceIDs:    make([]uuid.UUID, 0, len(req.ServiceIDs)),
		Date:          date,
		Clock:         clock,
		PaymentMethod: method,
		Gateway:       req.Gateway,
		Now:           time.Now(),
	}
	for _, sid := range req.ServiceIDs {
		booking.ServiceIDs = append(booking.ServiceIDs, uuid.MustParse(sid))
	}
	if req.ProfessionalID != "" {
		id := uuid.MustParse(req.ProfessionalID)
		booking.ProfessionalID = &id
	}
	if req.LocationID != "" {
		id := uuid.MustParse(req.LocationID)
		booking.LocationID = &id
	}

	appt, err := h.svc.Book(r.Context(), booking)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, appt)
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed canceled"`
}

// UpdateStatus handles PATCH /api/appointments/{appointmentID}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "missing tenant context")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "appointmentID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	appt, err := h.svc.Transition(r.Context(), tenantID, id, Status(req.Status))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, appt)
}

// Get handles GET /api/appointments/{appointmentID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "missing tenant context")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "appointmentID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	appt, err := h.svc.Get(r.Context(), tenantID, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, appt)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid4"`
}

type bulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// BulkDelete handles POST /api/appointments/bulk-delete. Completed
// appointments are never removed.
func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenancy.TenantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "missing tenant context")
		return
	}

	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		ids = append(ids, uuid.MustParse(raw))
	}

	deleted, err := h.svc.BulkDelete(r.Context(), tenantID, ids)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, bulkDeleteResponse{Deleted: deleted})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidService), errors.Is(err, ErrSlotInPast):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrInvalidTransition):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNoCredit), errors.Is(err, ErrGatewayNotConfigured):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("appointments request failed", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
