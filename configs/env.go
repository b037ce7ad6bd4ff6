package configs

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every process-wide setting. It is read once at startup and
// passed down; nothing else reads the environment after Load returns.
type Config struct {
	MongoURI               string
	DatabaseName           string
	Port                   string
	JWTSecret              string
	TokenTTL               time.Duration
	ClearCartAfterCheckout bool
	AllowedOrigins         []string
	LogLevel               string
}

// Load reads .env if present, then the environment, applying development
// defaults for anything unset. The JWT secret has no default.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:               getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName:           getEnv("MONGO_DATABASE", "storefront"),
		Port:                   getEnv("PORT", "4000"),
		JWTSecret:              os.Getenv("JWT_SECRET_KEY"),
		TokenTTL:               getDuration("TOKEN_TTL", 24*time.Hour),
		ClearCartAfterCheckout: getBool("CLEAR_CART_AFTER_CHECKOUT", true),
		AllowedOrigins:         splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
