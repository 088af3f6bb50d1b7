package appointments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agendly/booking-platform/internal/catalog"
	"github.com/agendly/booking-platform/internal/notify"
	"github.com/agendly/booking-platform/internal/observability/metrics"
	"github.com/agendly/booking-platform/internal/payments"
	"github.com/agendly/booking-platform/internal/schedule"
	"github.com/agendly/booking-platform/internal/subscriptions"
	"github.com/agendly/booking-platform/internal/tenants"
	"github.com/agendly/booking-platform/pkg/logging"
)

var bookingTracer = otel.Tracer("agendly.internal.appointments")

// CatalogReader is the slice of the catalog the orchestrator needs.
type CatalogReader interface {
	ServicesByIDs(ctx context.Context, tenantID string, ids []uuid.UUID) ([]catalog.Service, error)
	GetProfessional(ctx context.Context, tenantID string, id uuid.UUID) (*catalog.Professional, error)
	WorkingHours(ctx context.Context, professionalID uuid.UUID) ([]schedule.WeekdayWindow, error)
	LocationExists(ctx context.Context, tenantID string, id uuid.UUID) error
}

// TenantConfigStore loads tenant configuration.
type TenantConfigStore interface {
	Get(ctx context.Context, tenantID string) (*tenants.Config, error)
}

// CreditLedger moves plan credits inside the booking transaction.
type CreditLedger interface {
	Consume(ctx context.Context, tx subscriptions.Tx, tenantID string, clientID uuid.UUID) (uuid.UUID, error)
	Restore(ctx context.Context, tx subscriptions.Tx, subscriptionID uuid.UUID) error
}

type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Service orchestrates availability queries and the booking lifecycle.
type Service struct {
	db          beginner
	repo        *Repository
	catalog     CatalogReader
	tenantCfg   TenantConfigStore
	ledger      CreditLedger
	notifier    notify.Emitter
	metrics     *metrics.BookingMetrics
	logger      *logging.Logger
	granularity time.Duration
	fallback    schedule.Window
}

// NewService constructs the booking service. notifier and bookingMetrics
// may be nil; a zero fallback window keeps the package default.
func NewService(
	db beginner,
	repo *Repository,
	catalogReader CatalogReader,
	tenantCfg TenantConfigStore,
	ledger CreditLedger,
	notifier notify.Emitter,
	bookingMetrics *metrics.BookingMetrics,
	logger *logging.Logger,
	granularity time.Duration,
	fallback schedule.Window,
) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if catalogReader == nil {
		panic("appointments: catalog reader required")
	}
	if tenantCfg == nil {
		panic("appointments: tenant config store required")
	}
	if ledger == nil {
		ledger = subscriptions.NewLedger()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if granularity <= 0 {
		granularity = schedule.DefaultGranularity
	}
	return &Service{
		db:          db,
		repo:        repo,
		catalog:     catalogReader,
		tenantCfg:   tenantCfg,
		ledger:      ledger,
		notifier:    notifier,
		metrics:     bookingMetrics,
		logger:      logger,
		granularity: granularity,
		fallback:    fallback,
	}
}

// Availability computes the bookable start times for a tenant, an optional
// professional and a calendar date. This read is an optimistic hint; the
// authoritative check happens again at booking time.
func (s *Service) Availability(ctx context.Context, tenantID string, professionalID *uuid.UUID, date, now time.Time) ([]schedule.ClockTime, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.availability")
	defer span.End()
	span.SetAttributes(attribute.String("agendly.tenant_id", tenantID))

	s.metrics.ObserveAvailability()

	cfg, err := s.tenantCfg.Get(ctx, tenantID)
	if err != nil {
		return nil, mapTenantErr(err)
	}
	loc := cfg.Location()
	// date is a calendar day, not an instant: re-anchor its components in
	// the tenant zone. Converting the instant would shift the day for
	// tenants behind UTC.
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	now = now.In(loc)

	var entries []schedule.WeekdayWindow
	if professionalID != nil {
		if _, err := s.catalog.GetProfessional(ctx, tenantID, *professionalID); err != nil {
			return nil, mapCatalogErr(err)
		}
		entries, err = s.catalog.WorkingHours(ctx, *professionalID)
		if err != nil {
			return nil, err
		}
	}

	window, open := schedule.NewResolver(entries, cfg.ScheduleHours(), s.fallback).Resolve(date)
	if !open {
		return []schedule.ClockTime{}, nil
	}
	candidates := schedule.Generate(window, s.granularity)

	dayStart, dayEnd := dayBounds(date, loc)
	starts, err := s.repo.OccupiedStarts(ctx, tenantID, professionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	occupied := make([]schedule.ClockTime, 0, len(starts))
	for _, t := range starts {
		occupied = append(occupied, schedule.ClockOf(t.In(loc)))
	}

	return schedule.FilterConflicts(candidates, date, occupied, now), nil
}

// Book validates and persists a booking. The conflict re-check, the credit
// decrement (plan-credit bookings) and the insert run in one transaction;
// the partial unique index on the slot tuple is the storage-level backstop
// for races the re-check cannot see.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("agendly.tenant_id", req.TenantID),
		attribute.String("agendly.payment_method", string(req.PaymentMethod)),
	)
	started := time.Now()

	appt, err := s.book(ctx, req)
	outcome := "ok"
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, ErrSlotTaken):
			outcome = "conflict"
			s.metrics.ObserveSlotConflict()
		case errors.Is(err, ErrNoCredit):
			outcome = "no_credit"
		default:
			outcome = "rejected"
		}
	}
	s.metrics.ObserveBooking(outcome, string(req.PaymentMethod), time.Since(started).Seconds())
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment booked",
		"tenant_id", appt.TenantID,
		"appointment_id", appt.ID,
		"starts_at", appt.StartsAt,
		"status", appt.Status,
		"payment_method", appt.PaymentMethod,
	)
	s.notifier.BookingCreated(ctx, notify.Event{
		AppointmentID: appt.ID,
		TenantID:      appt.TenantID,
		Status:        string(appt.Status),
		OccurredAt:    req.Now,
	})
	return appt, nil
}

func (s *Service) book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	svcs, err := s.catalog.ServicesByIDs(ctx, req.TenantID, req.ServiceIDs)
	if err != nil {
		return nil, mapCatalogErr(err)
	}

	cfg, err := s.tenantCfg.Get(ctx, req.TenantID)
	if err != nil {
		return nil, mapTenantErr(err)
	}
	loc := cfg.Location()

	if req.ProfessionalID != nil {
		if _, err := s.catalog.GetProfessional(ctx, req.TenantID, *req.ProfessionalID); err != nil {
			return nil, mapCatalogErr(err)
		}
	}
	if req.LocationID != nil {
		if err := s.catalog.LocationExists(ctx, req.TenantID, *req.LocationID); err != nil {
			return nil, mapCatalogErr(err)
		}
	}

	startsAt := req.Clock.At(req.Date, loc)
	// Strictly in the future: a slot equal to "now" is already past.
	if !startsAt.After(req.Now) {
		return nil, ErrSlotInPast
	}

	var priceCents int64
	var durationMinutes int
	for _, svc := range svcs {
		priceCents += svc.PriceCents
		durationMinutes += svc.DurationMinutes
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txRepo := s.repo.WithTx(tx)

	// Commit-time re-validation. The availability query the client saw is
	// stale by the time the booking lands.
	dayStart, dayEnd := dayBounds(startsAt, loc)
	starts, err := txRepo.OccupiedStarts(ctx, req.TenantID, req.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	for _, t := range starts {
		if schedule.ClockOf(t.In(loc)) == req.Clock {
			return nil, ErrSlotTaken
		}
	}

	decision, err := payments.Decide(req.PaymentMethod, req.Gateway, cfg)
	if err != nil {
		return nil, mapPaymentErr(err)
	}

	appt := &Appointment{
		ID:              uuid.New(),
		TenantID:        req.TenantID,
		ClientID:        req.ClientID,
		ProfessionalID:  req.ProfessionalID,
		LocationID:      req.LocationID,
		ServiceIDs:      req.ServiceIDs,
		StartsAt:        startsAt,
		DurationMinutes: durationMinutes,
		PriceCents:      priceCents,
		PaymentMethod:   req.PaymentMethod,
		Gateway:         decision.Gateway,
		Status:          StatusPending,
	}
	if decision.ConfirmImmediately {
		appt.Status = StatusConfirmed
	}

	if decision.ConsumeCredit {
		subID, err := s.ledger.Consume(ctx, tx, req.TenantID, req.ClientID)
		if err != nil {
			return nil, mapLedgerErr(err)
		}
		appt.SubscriptionID = &subID
	}

	if err := txRepo.Insert(ctx, appt); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return appt, nil
}

// Transition applies a lifecycle change. Canceling a plan-credit
// appointment restores the consumed credit in the same transaction.
func (s *Service) Transition(ctx context.Context, tenantID string, id uuid.UUID, to Status) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.transition")
	defer span.End()
	span.SetAttributes(
		attribute.String("agendly.tenant_id", tenantID),
		attribute.String("agendly.target_status", string(to)),
	)

	appt, err := s.transition(ctx, tenantID, id, to)
	if err != nil {
		span.RecordError(err)
		outcome := "error"
		if errors.Is(err, ErrInvalidTransition) {
			outcome = "invalid"
			s.logger.Warn("invalid appointment transition",
				"tenant_id", tenantID,
				"appointment_id", id,
				"target_status", to,
			)
		}
		s.metrics.ObserveTransition(string(to), outcome)
		return nil, err
	}
	s.metrics.ObserveTransition(string(to), "ok")

	s.logger.Info("appointment status changed",
		"tenant_id", tenantID,
		"appointment_id", id,
		"status", to,
	)
	s.notifier.StatusChanged(ctx, notify.Event{
		AppointmentID: id,
		TenantID:      tenantID,
		Status:        string(to),
		OccurredAt:    time.Now().UTC(),
	})
	return appt, nil
}

func (s *Service) transition(ctx context.Context, tenantID string, id uuid.UUID, to Status) (*Appointment, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txRepo := s.repo.WithTx(tx)
	appt, err := txRepo.GetForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(appt.Status, to); err != nil {
		return nil, err
	}
	if err := txRepo.UpdateStatus(ctx, tenantID, id, to); err != nil {
		return nil, err
	}

	if to == StatusCanceled && appt.PaymentMethod == payments.MethodPlanCredit && appt.SubscriptionID != nil {
		if err := s.ledger.Restore(ctx, tx, *appt.SubscriptionID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	appt.Status = to
	return appt, nil
}

// Get loads an appointment scoped to the tenant.
func (s *Service) Get(ctx context.Context, tenantID string, id uuid.UUID) (*Appointment, error) {
	return s.repo.Get(ctx, tenantID, id)
}

// BulkDelete removes the given appointments, keeping completed ones.
// Administrative cleanup only.
func (s *Service) BulkDelete(ctx context.Context, tenantID string, ids []uuid.UUID) (int64, error) {
	deleted, err := s.repo.BulkDeleteNonCompleted(ctx, tenantID, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info("appointments bulk deleted",
		"tenant_id", tenantID,
		"requested", len(ids),
		"deleted", deleted,
	)
	return deleted, nil
}

func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func mapCatalogErr(err error) error {
	switch {
	case errors.Is(err, catalog.ErrServiceNotFound):
		return ErrInvalidService
	case errors.Is(err, catalog.ErrProfessionalNotFound), errors.Is(err, catalog.ErrLocationNotFound):
		return ErrNotFound
	default:
		return err
	}
}

func mapTenantErr(err error) error {
	if errors.Is(err, tenants.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func mapPaymentErr(err error) error {
	if errors.Is(err, payments.ErrGatewayNotConfigured) {
		return ErrGatewayNotConfigured
	}
	return err
}

func mapLedgerErr(err error) error {
	if errors.Is(err, subscriptions.ErrInsufficientCredit) || errors.Is(err, subscriptions.ErrNoActiveSubscription) {
		return ErrNoCredit
	}
	return err
}
