package appointments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendly/booking-platform/internal/tenancy"
	"github.com/agendly/booking-platform/pkg/logging"
)

func testRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if tid := req.Header.Get("X-Tenant-Id"); tid != "" {
				req = req.WithContext(tenancy.WithTenantID(req.Context(), tid))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/api/availability", h.Availability)
	r.Post("/api/appointments", h.Book)
	r.Patch("/api/appointments/{appointmentID}/status", h.UpdateStatus)
	r.Post("/api/appointments/bulk-delete", h.BulkDelete)
	return r
}

func TestHandler_Availability(t *testing.T) {
	cat := newFakeCatalog()
	svc, mock := newTestService(t, cat, testTenantConfig())
	h := NewHandler(svc, logging.New("error"))

	mock.ExpectQuery(`SELECT starts_at\s+FROM appointments`).
		WithArgs(tenantID, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"starts_at"}))

	// A date far in the future so no slots are trimmed as past.
	req := httptest.NewRequest(http.MethodGet, "/api/availability?date=2031-06-04", nil)
	req.Header.Set("X-Tenant-Id", tenantID)
	rec := httptest.NewRecorder()

	testRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp availabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, tenantID, resp.TenantID)
	assert.Len(t, resp.Slots, 18)
	assert.Equal(t, "09:00", resp.Slots[0])
	assert.Equal(t, "17:30", resp.Slots[17])
}

func TestHandler_Availability_MissingTenant(t *testing.T) {
	cat := newFakeCatalog()
	svc, _ := newTestService(t, cat, testTenantConfig())
	h := NewHandler(svc, logging.New("error"))

	req := httptest.NewRequest(http.MethodGet, "/api/availability?date=2031-06-04", nil)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Availability_BadDate(t *testing.T) {
	cat := newFakeCatalog()
	svc, _ := newTestService(t, cat, testTenantConfig())
	h := NewHandler(svc, logging.New("error"))

	req := httptest.NewRequest(http.MethodGet, "/api/availability?date=junk", nil)
	req.Header.Set("X-Tenant-Id", tenantID)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Book_ValidationFailures(t *testing.T) {
	cat := newFakeCatalog()
	svc, _ := newTestService(t, cat, testTenantConfig())
	h := NewHandler(svc, logging.New("error"))

	tests := []struct {
		name string
		body string
	}{
		{"empty services", `{"client_id":"` + uuid.NewString() + `","service_ids":[],"date":"2031-06-04","time":"10:00","payment_method":"at_location"}`},
		{"missing date", `{"client_id":"` + uuid.NewString() + `","service_ids":["` + uuid.NewString() + `"],"time":"10:00","payment_method":"at_location"}`},
		{"bad payment method", `{"client_id":"` + uuid.NewString() + `","service_ids":["` + uuid.NewString() + `"],"date":"2031-06-04","time":"10:00","payment_method":"gold"}`},
		{"not json", `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(tt.body))
			req.Header.Set("X-Tenant-Id", tenantID)
			rec := httptest.NewRecorder()
			testRouter(h).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_Book_SlotTakenMapsToConflict(t *testing.T) {
	cat := newFakeCatalog()
	serviceID := seedService(cat, 4500, 30)
	svc, mock := newTestService(t, cat, testTenantConfig())
	h := NewHandler(svc, logging.New("error"))

	occupied := time.Date(2031, 6, 4, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT starts_at\s+FROM appointments`).
		WithArgs(tenantID, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"starts_at"}).AddRow(occupied))
	mock.ExpectRollback()

	body := `{"client_id":"` + uuid.NewString() + `","service_ids":["` + serviceID.String() + `"],"date":"2031-06-04","time":"10:00","payment_method":"at_location"}`
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	req.Header.Set("X-Tenant-Id", tenantID)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_UpdateStatus_InvalidTransition(t *testing.T) {
	cat := newFakeCatalog()
	svc, mock := newTestService(t, cat, testTenantConfig())
	h := NewHandler(svc, logging.New("error"))

	id := uuid.New()
	mock.ExpectBegin()
	expectGetForUpdate(mock, id, StatusCompleted, "at_location", nil)
	mock.ExpectRollback()

	req := httptest.NewRequest(http.MethodPatch, "/api/appointments/"+id.String()+"/status", strings.NewReader(`{"status":"canceled"}`))
	req.Header.Set("X-Tenant-Id", tenantID)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_BulkDelete(t *testing.T) {
	cat := newFakeCatalog()
	svc, mock := newTestService(t, cat, testTenantConfig())
	h := NewHandler(svc, logging.New("error"))

	a, b := uuid.New(), uuid.New()
	mock.ExpectExec(`DELETE FROM appointments`).
		WithArgs(tenantID, []uuid.UUID{a, b}).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	body := `{"ids":["` + a.String() + `","` + b.String() + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/appointments/bulk-delete", strings.NewReader(body))
	req.Header.Set("X-Tenant-Id", tenantID)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp bulkDeleteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(1), resp.Deleted)
}
