package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/agendly/booking-platform/internal/analytics"
	"github.com/agendly/booking-platform/internal/api/router"
	"github.com/agendly/booking-platform/internal/appointments"
	"github.com/agendly/booking-platform/internal/catalog"
	appconfig "github.com/agendly/booking-platform/internal/config"
	"github.com/agendly/booking-platform/internal/http/handlers"
	"github.com/agendly/booking-platform/internal/notify"
	"github.com/agendly/booking-platform/internal/observability/metrics"
	"github.com/agendly/booking-platform/internal/schedule"
	"github.com/agendly/booking-platform/internal/subscriptions"
	"github.com/agendly/booking-platform/internal/tenants"
	"github.com/agendly/booking-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	// Separate database/sql handle for the back-office reporting surface.
	reportingDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open reporting db", "error", err)
		os.Exit(1)
	}
	defer func() { _ = reportingDB.Close() }()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, caches disabled", "error", err)
			redisClient = nil
		}
	}

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	tenantStore := tenants.NewStore(tenants.NewRepository(pool), redisClient, cfg.TenantCacheTTL)
	catalogRepo := catalog.NewRepository(pool)
	apptRepo := appointments.NewRepository(pool)
	ledger := subscriptions.NewLedger()
	emitter := notify.NewLogEmitter(logger)

	bookingSvc := appointments.NewService(
		pool,
		apptRepo,
		catalogRepo,
		tenantStore,
		ledger,
		emitter,
		bookingMetrics,
		logger,
		cfg.SlotGranularity,
		defaultWindow(cfg, logger),
	)
	analyticsSvc := analytics.NewService(
		analytics.NewRepository(pool),
		tenantStore,
		redisClient,
		cfg.AnalyticsCacheTTL,
		logger,
	)

	routerCfg := &router.Config{
		Logger:              logger,
		AppointmentsHandler: appointments.NewHandler(bookingSvc, logger),
		AnalyticsHandler:    analytics.NewHandler(analyticsSvc, logger),
		AdminOverview:       handlers.NewAdminOverviewHandler(reportingDB, logger),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  splitOrigins(cfg.CORSAllowedOrigins),
		RateLimit:           cfg.BookingRateLimit,
		RateBurst:           cfg.BookingRateBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// defaultWindow parses the operator-configured fallback working hours.
// Invalid clocks leave the window zero, which keeps the built-in default.
func defaultWindow(cfg *appconfig.Config, logger *logging.Logger) schedule.Window {
	open, err := schedule.ParseClock(cfg.DefaultOpenClock)
	if err != nil {
		logger.Warn("invalid DEFAULT_OPEN_CLOCK, using built-in default", "error", err)
		return schedule.Window{}
	}
	closeAt, err := schedule.ParseClock(cfg.DefaultCloseClock)
	if err != nil {
		logger.Warn("invalid DEFAULT_CLOSE_CLOCK, using built-in default", "error", err)
		return schedule.Window{}
	}
	if closeAt <= open {
		logger.Warn("default close clock not after open clock, using built-in default",
			"open", cfg.DefaultOpenClock, "close", cfg.DefaultCloseClock)
		return schedule.Window{}
	}
	return schedule.Window{Open: open, Close: closeAt}
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
