package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendly/booking-platform/internal/tenancy"
	"github.com/agendly/booking-platform/pkg/logging"
)

func TestHandler_Stats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	// Prime the snapshot cache so the handler serves without touching the
	// database.
	snap := Snapshot{
		TenantID:     tenantID,
		Today:        WindowStats{Count: 1, RevenueCents: 8000},
		PendingCount: 2,
		GeneratedAt:  time.Now().UTC(),
	}
	data, err := json.Marshal(&snap)
	require.NoError(t, err)
	require.NoError(t, mr.Set("analytics:snapshot:"+tenantID, string(data)))

	svc := NewService(NewRepositoryWithDB(mock), utcTenantStore(), rdb, time.Minute, logging.New("error"))
	h := NewHandler(svc, logging.New("error"))

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/stats", nil)
	req = req.WithContext(tenancy.WithTenantID(context.Background(), tenantID))
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, int64(8000), got.Today.RevenueCents)
	assert.Equal(t, int64(2), got.PendingCount)
}

func TestHandler_Stats_MissingTenant(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := NewService(NewRepositoryWithDB(mock), utcTenantStore(), nil, time.Minute, logging.New("error"))
	h := NewHandler(svc, logging.New("error"))

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/stats", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
