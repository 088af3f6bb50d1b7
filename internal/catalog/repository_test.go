package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendly/booking-platform/internal/schedule"
)

func TestServicesByIDs_PreservesRequestOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cut := uuid.New()
	beard := uuid.New()

	// Rows come back in arbitrary database order.
	mock.ExpectQuery(`SELECT id, name, duration_minutes, price_cents, active`).
		WithArgs("t-1", []uuid.UUID{cut, beard}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "duration_minutes", "price_cents", "active"}).
			AddRow(beard, "Beard Trim", 15, int64(3500), true).
			AddRow(cut, "Haircut", 30, int64(4500), true))

	repo := NewRepositoryWithDB(mock)
	svcs, err := repo.ServicesByIDs(context.Background(), "t-1", []uuid.UUID{cut, beard})
	require.NoError(t, err)
	require.Len(t, svcs, 2)
	assert.Equal(t, "Haircut", svcs[0].Name)
	assert.Equal(t, "Beard Trim", svcs[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServicesByIDs_UnknownID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	known := uuid.New()
	unknown := uuid.New()

	mock.ExpectQuery(`SELECT id, name, duration_minutes, price_cents, active`).
		WithArgs("t-1", []uuid.UUID{known, unknown}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "duration_minutes", "price_cents", "active"}).
			AddRow(known, "Haircut", 30, int64(4500), true))

	repo := NewRepositoryWithDB(mock)
	_, err = repo.ServicesByIDs(context.Background(), "t-1", []uuid.UUID{known, unknown})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestServicesByIDs_Empty(t *testing.T) {
	repo := NewRepositoryWithDB(nil)
	_, err := repo.ServicesByIDs(context.Background(), "t-1", nil)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestGetProfessional_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT id, name, active FROM professionals`).
		WithArgs(id, "t-1").
		WillReturnError(pgx.ErrNoRows)

	repo := NewRepositoryWithDB(mock)
	_, err = repo.GetProfessional(context.Background(), "t-1", id)
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}

func TestWorkingHours(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT weekday, opens_at, closes_at`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"weekday", "opens_at", "closes_at"}).
			AddRow(2, "10:00", "14:00").
			AddRow(4, "garbage", "14:00"). // skipped
			AddRow(5, "09:00", "18:00"))

	repo := NewRepositoryWithDB(mock)
	windows, err := repo.WorkingHours(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, time.Tuesday, windows[0].Weekday)
	assert.Equal(t, schedule.MustClock("10:00"), windows[0].Window.Open)
	assert.Equal(t, time.Friday, windows[1].Weekday)
}
