package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/agendly/booking-platform/internal/analytics"
	"github.com/agendly/booking-platform/internal/appointments"
	"github.com/agendly/booking-platform/internal/http/handlers"
	httpmiddleware "github.com/agendly/booking-platform/internal/http/middleware"
	"github.com/agendly/booking-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	AnalyticsHandler    *analytics.Handler
	AdminOverview       *handlers.AdminOverviewHandler
	AdminAuthSecret     string
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// Per-tenant rate limit on the booking API. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health checks, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Tenant-scoped API routes
	r.Route("/api", func(tenant chi.Router) {
		tenant.Use(requireTenantID)
		if cfg.RateLimit > 0 {
			tenant.Use(httpmiddleware.RateLimit(cfg.RateLimit, cfg.RateBurst))
		}

		tenant.Get("/availability", cfg.AppointmentsHandler.Availability)

		tenant.Route("/appointments", func(appt chi.Router) {
			appt.Post("/", cfg.AppointmentsHandler.Book)
			appt.Post("/bulk-delete", cfg.AppointmentsHandler.BulkDelete)
			appt.Get("/{appointmentID}", cfg.AppointmentsHandler.Get)
			appt.Patch("/{appointmentID}/status", cfg.AppointmentsHandler.UpdateStatus)
		})

		if cfg.AnalyticsHandler != nil {
			tenant.Get("/analytics/stats", cfg.AnalyticsHandler.Stats)
		}
	})

	// Back-office routes (protected by admin JWT)
	if cfg.AdminAuthSecret != "" && cfg.AdminOverview != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/overview", cfg.AdminOverview.GetOverview)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
