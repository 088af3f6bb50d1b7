package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agendly/booking-platform/internal/tenants"
	"github.com/agendly/booking-platform/pkg/logging"
)

var statsTracer = otel.Tracer("agendly.internal.analytics")

var (
	completedOnly      = []string{"completed"}
	completedConfirmed = []string{"completed", "confirmed"}
)

// histogramFloor and histogramCeil bound the hours always present in the
// hourly distribution even when empty.
const (
	histogramFloor = 8
	histogramCeil  = 20
)

type tenantConfigStore interface {
	Get(ctx context.Context, tenantID string) (*tenants.Config, error)
}

// Service computes dashboard snapshots. Snapshots are cached in Redis for
// a short TTL; a few minutes of staleness is acceptable for this surface.
type Service struct {
	repo      *Repository
	tenantCfg tenantConfigStore
	redis     *redis.Client
	cacheTTL  time.Duration
	logger    *logging.Logger
}

// NewService wires the aggregator. redisClient may be nil, disabling the
// snapshot cache.
func NewService(repo *Repository, tenantCfg tenantConfigStore, redisClient *redis.Client, cacheTTL time.Duration, logger *logging.Logger) *Service {
	if repo == nil {
		panic("analytics: repository required")
	}
	if tenantCfg == nil {
		panic("analytics: tenant config store required")
	}
	if cacheTTL <= 0 {
		cacheTTL = 2 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:      repo,
		tenantCfg: tenantCfg,
		redis:     redisClient,
		cacheTTL:  cacheTTL,
		logger:    logger.Component("analytics"),
	}
}

func (s *Service) cacheKey(tenantID string) string {
	return fmt.Sprintf("analytics:snapshot:%s", tenantID)
}

// ComputeStats builds the dashboard snapshot for a tenant as of now.
// All windows are anchored in the tenant's timezone.
func (s *Service) ComputeStats(ctx context.Context, tenantID string, now time.Time) (*Snapshot, error) {
	ctx, span := statsTracer.Start(ctx, "analytics.compute_stats")
	defer span.End()
	span.SetAttributes(attribute.String("agendly.tenant_id", tenantID))

	if s.redis != nil {
		if data, err := s.redis.Get(ctx, s.cacheKey(tenantID)).Bytes(); err == nil {
			var snap Snapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				span.SetAttributes(attribute.Bool("agendly.cache_hit", true))
				return &snap, nil
			}
		}
	}

	cfg, err := s.tenantCfg.Get(ctx, tenantID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		s.logger.Warn("unknown tenant timezone, using UTC", "tenant_id", tenantID, "timezone", cfg.Timezone)
		loc = time.UTC
	}

	local := now.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 7)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)
	trailingStart := dayEnd.AddDate(0, 0, -30)

	snap := &Snapshot{TenantID: tenantID, GeneratedAt: now.UTC()}

	if snap.Today, err = s.repo.WindowStats(ctx, tenantID, dayStart, dayEnd, completedOnly); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if snap.Week, err = s.repo.WindowStats(ctx, tenantID, weekStart, weekEnd, completedConfirmed); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if snap.Month, err = s.repo.WindowStats(ctx, tenantID, monthStart, monthEnd, completedConfirmed); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if snap.TopProfessionals, err = s.repo.TopProfessionals(ctx, tenantID, trailingStart, dayEnd); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if snap.TopServices, err = s.repo.TopServices(ctx, tenantID, trailingStart, dayEnd); err != nil {
		span.RecordError(err)
		return nil, err
	}

	counts, err := s.repo.HourCounts(ctx, tenantID, dayStart, dayEnd, loc.String())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	snap.Hourly = buildHistogram(counts)

	if snap.Recent, err = s.repo.RecentFeed(ctx, tenantID); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if snap.PendingCount, err = s.repo.PendingCount(ctx, tenantID); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if snap.ActiveClients, err = s.repo.ActiveClientsCount(ctx, tenantID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(snap); err == nil {
			_ = s.redis.Set(ctx, s.cacheKey(tenantID), data, s.cacheTTL).Err()
		}
	}
	return snap, nil
}

// Invalidate drops the cached snapshot so the next read recomputes it.
func (s *Service) Invalidate(ctx context.Context, tenantID string) error {
	if s.redis == nil {
		return nil
	}
	if err := s.redis.Del(ctx, s.cacheKey(tenantID)).Err(); err != nil {
		return fmt.Errorf("analytics: invalidate snapshot: %w", err)
	}
	return nil
}

// buildHistogram emits a bucket for every hour that saw an appointment,
// plus the core business hours so the chart keeps its shape on quiet days.
func buildHistogram(counts map[int]int64) []HourBucket {
	buckets := make([]HourBucket, 0, 24)
	for hour := 0; hour < 24; hour++ {
		count := counts[hour]
		if count > 0 || (hour >= histogramFloor && hour <= histogramCeil) {
			buckets = append(buckets, HourBucket{Hour: hour, Count: count})
		}
	}
	return buckets
}
