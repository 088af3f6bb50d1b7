package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendly/booking-platform/internal/appointments"
	"github.com/agendly/booking-platform/internal/catalog"
	"github.com/agendly/booking-platform/internal/notify"
	"github.com/agendly/booking-platform/internal/schedule"
	"github.com/agendly/booking-platform/internal/subscriptions"
	"github.com/agendly/booking-platform/internal/tenants"
	"github.com/agendly/booking-platform/pkg/logging"
)

const testTenant = "7c0ce0be-3b62-4d58-b038-54bb543fc8d9"

type stubCatalog struct{}

func (stubCatalog) ServicesByIDs(ctx context.Context, tenantID string, ids []uuid.UUID) ([]catalog.Service, error) {
	return nil, catalog.ErrServiceNotFound
}
func (stubCatalog) GetProfessional(ctx context.Context, tenantID string, id uuid.UUID) (*catalog.Professional, error) {
	return nil, catalog.ErrProfessionalNotFound
}
func (stubCatalog) WorkingHours(ctx context.Context, professionalID uuid.UUID) ([]schedule.WeekdayWindow, error) {
	return nil, nil
}
func (stubCatalog) LocationExists(ctx context.Context, tenantID string, id uuid.UUID) error {
	return nil
}

type stubTenants struct{}

func (stubTenants) Get(ctx context.Context, tenantID string) (*tenants.Config, error) {
	cfg := tenants.DefaultConfig(tenantID)
	cfg.Timezone = "UTC"
	return cfg, nil
}

func newTestRouter(t *testing.T) (http.Handler, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := logging.New("error")
	svc := appointments.NewService(
		mock,
		appointments.NewRepositoryWithDB(mock),
		stubCatalog{},
		stubTenants{},
		subscriptions.NewLedger(),
		notify.Nop{},
		nil,
		logger,
		schedule.DefaultGranularity,
		schedule.Window{},
	)
	cfg := &Config{
		Logger:              logger,
		AppointmentsHandler: appointments.NewHandler(svc, logger),
		AdminAuthSecret:     "",
	}
	return New(cfg), mock
}

func TestRouter_Health(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_MissingTenantHeader(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/availability?date=2031-06-04", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_AvailabilityRouted(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery(`SELECT starts_at\s+FROM appointments`).
		WithArgs(testTenant, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"starts_at"}).
			AddRow(time.Date(2031, 6, 4, 9, 0, 0, 0, time.UTC)))

	req := httptest.NewRequest(http.MethodGet, "/api/availability?date=2031-06-04", nil)
	req.Header.Set("X-Tenant-Id", testTenant)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Slots []string `json:"slots"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Slots, 17)
	assert.NotContains(t, resp.Slots, "09:00")
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := logging.New("error")
	svc := appointments.NewService(
		mock,
		appointments.NewRepositoryWithDB(mock),
		stubCatalog{},
		stubTenants{},
		subscriptions.NewLedger(),
		notify.Nop{},
		nil,
		logger,
		schedule.DefaultGranularity,
		schedule.Window{},
	)
	r := New(&Config{
		Logger:              logger,
		AppointmentsHandler: appointments.NewHandler(svc, logger),
		AdminOverview:       nil,
		AdminAuthSecret:     "secret",
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/overview", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	// No overview handler wired means the admin subtree is absent.
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
