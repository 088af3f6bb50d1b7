package tenants

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when the tenant does not exist.
var ErrNotFound = errors.New("tenants: tenant not found")

type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository loads tenant configuration rows.
type Repository struct {
	db db
}

// NewRepository creates a repository backed by pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("tenants: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db db) *Repository {
	return &Repository{db: db}
}

// Get loads the tenant row and deserializes its config document. Missing
// config fields fall back to defaults.
func (r *Repository) Get(ctx context.Context, tenantID string) (*Config, error) {
	query := `SELECT name, currency, timezone, config FROM tenants WHERE id = $1`
	var (
		name, currency, timezone string
		raw                      []byte
	)
	if err := r.db.QueryRow(ctx, query, tenantID).Scan(&name, &currency, &timezone, &raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tenants: load config: %w", err)
	}

	cfg := DefaultConfig(tenantID)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("tenants: unmarshal config: %w", err)
		}
	}
	cfg.TenantID = tenantID
	if name != "" {
		cfg.Name = name
	}
	if currency != "" {
		cfg.Currency = currency
	}
	if timezone != "" {
		cfg.Timezone = timezone
	}
	return cfg, nil
}

// Store caches tenant configuration in Redis in front of the repository.
// Staleness up to the TTL is acceptable; config edits are rare.
type Store struct {
	repo  *Repository
	redis *redis.Client
	ttl   time.Duration
}

// NewStore creates a cached tenant-config store. redisClient may be nil,
// in which case every read goes to the database.
func NewStore(repo *Repository, redisClient *redis.Client, ttl time.Duration) *Store {
	if repo == nil {
		panic("tenants: repository required")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{repo: repo, redis: redisClient, ttl: ttl}
}

func (s *Store) key(tenantID string) string {
	return fmt.Sprintf("tenant:config:%s", tenantID)
}

// Get retrieves tenant config, consulting the cache first.
func (s *Store) Get(ctx context.Context, tenantID string) (*Config, error) {
	if s.redis != nil {
		data, err := s.redis.Get(ctx, s.key(tenantID)).Bytes()
		if err == nil {
			var cfg Config
			if err := json.Unmarshal(data, &cfg); err == nil {
				return &cfg, nil
			}
			// Corrupt cache entry falls through to the database.
		}
	}

	cfg, err := s.repo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(cfg); err == nil {
			_ = s.redis.Set(ctx, s.key(tenantID), data, s.ttl).Err()
		}
	}
	return cfg, nil
}

// Invalidate drops the cached config for a tenant after an admin edit.
func (s *Store) Invalidate(ctx context.Context, tenantID string) error {
	if s.redis == nil {
		return nil
	}
	if err := s.redis.Del(ctx, s.key(tenantID)).Err(); err != nil {
		return fmt.Errorf("tenants: invalidate cache: %w", err)
	}
	return nil
}
