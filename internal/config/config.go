package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type AppConfig struct {
	Env string

	// Server
	HTTPAddr       string
	AllowedOrigins []string

	// Booking backend
	BackendURL       string
	BackendTimeout   time.Duration
	BackendRateLimit float64
	BackendBurst     int

	// Durable storage
	StorageDriver string
	RedisAddr     string
	RedisPass     string
	RedisDB       int
	DatabaseURL   string

	// Notifications
	NotifyDuration time.Duration
	NotifyCooldown time.Duration

	// Confirmation dialog: "reject" or "replace"
	ConfirmOverlap string

	CartFetchConcurrency int
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		Env: getEnv("APP_ENV", "production"),

		HTTPAddr:       getEnv("HTTP_ADDR", ":8000"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"*"}),

		BackendURL:       getEnv("BACKEND_URL", "http://localhost:8080/api"),
		BackendTimeout:   getEnvDuration("BACKEND_TIMEOUT", 15*time.Second),
		BackendRateLimit: getEnvFloat("BACKEND_RATE_LIMIT", 0),
		BackendBurst:     getEnvInt("BACKEND_RATE_BURST", 10),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:     getEnv("REDIS_PASS", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		NotifyDuration: time.Duration(getEnvInt("NOTIFY_DURATION_MS", 3000)) * time.Millisecond,
		NotifyCooldown: time.Duration(getEnvInt("NOTIFY_COOLDOWN_MS", 1000)) * time.Millisecond,

		ConfirmOverlap: strings.ToLower(getEnv("CONFIRM_OVERLAP", "reject")),

		CartFetchConcurrency: getEnvInt("CART_FETCH_CONCURRENCY", 8),
	}
}

func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
