package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP
	Addr       string
	CORSOrigin string

	// DB: postgres URL or sqlite file path.
	DatabaseURL string
	LogSQL      bool

	// Session tokens
	Issuer     string
	SigningKey string
	SessionTTL time.Duration

	// Board surface
	AdminHandle   string
	AdminPassword string

	// Observability
	Environment string
	LogLevel    string
}

func Load() Config {
	// Best-effort .env for local development.
	_ = godotenv.Load()

	return Config{
		Addr:       getenv("TSUNAGARI_ADDR", ":8090"),
		CORSOrigin: getenv("TSUNAGARI_CORS_ORIGINS", ""),

		DatabaseURL: getenv("TSUNAGARI_DATABASE_URL", "tsunagari.db"),
		LogSQL:      getbool("TSUNAGARI_LOG_SQL", false),

		Issuer:     getenv("TSUNAGARI_ISSUER", "tsunagari"),
		SigningKey: getenv("TSUNAGARI_SIGNING_KEY", "dev-secret-change-me"),
		SessionTTL: getdur("TSUNAGARI_SESSION_TTL", 24*time.Hour),

		AdminHandle:   getenv("TSUNAGARI_ADMIN_HANDLE", "admin"),
		AdminPassword: getenv("TSUNAGARI_ADMIN_PASSWORD", "admin123"),

		Environment: getenv("TSUNAGARI_ENV", "dev"),
		LogLevel:    getenv("TSUNAGARI_LOG_LEVEL", "info"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration, using default", "key", k, "value", v, "default", def)
	}
	return def
}
