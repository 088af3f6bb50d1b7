package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Booking behaviour
	SlotGranularity   time.Duration
	DefaultOpenClock  string
	DefaultCloseClock string
	BookingRateLimit  float64
	BookingRateBurst  int

	// Analytics
	AnalyticsCacheTTL time.Duration
	TenantCacheTTL    time.Duration

	AdminJWTSecret     string
	CORSAllowedOrigins string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		SlotGranularity:   getEnvAsDuration("SLOT_GRANULARITY", 30*time.Minute),
		DefaultOpenClock:  getEnv("DEFAULT_OPEN_CLOCK", "09:00"),
		DefaultCloseClock: getEnv("DEFAULT_CLOSE_CLOCK", "18:00"),
		BookingRateLimit:  getEnvAsFloat("BOOKING_RATE_LIMIT", 5),
		BookingRateBurst:  getEnvAsInt("BOOKING_RATE_BURST", 10),

		AnalyticsCacheTTL: getEnvAsDuration("ANALYTICS_CACHE_TTL", 2*time.Minute),
		TenantCacheTTL:    getEnvAsDuration("TENANT_CACHE_TTL", 5*time.Minute),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
