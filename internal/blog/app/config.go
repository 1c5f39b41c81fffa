package app

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/inkwellhq/inkwell/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim for tokens (default: inkwell)

	AccessSecret  string // Required: HMAC secret for access tokens (min 32 bytes)
	RefreshSecret string // Required: HMAC secret for refresh tokens (min 32 bytes)

	Algorithm         string   // Signing algorithm (HS256, HS384, HS512) (default: HS256)
	AllowedAlgorithms []string // Verification allow-list (default: [Algorithm])

	AccessTTL  time.Duration // Access-token lifetime (default: 15m)
	RefreshTTL time.Duration // Refresh-token lifetime (default: 168h)

	AdminEmails []string // Emails that register with the admin role

	DatabaseFile         string        // Path to SQLite database file (default: ./blog.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-token cleanup interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:        getEnvOrDefault("JWT_ISSUER", "inkwell"),
		AccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		Algorithm:     getEnvOrDefault("JWT_ALGORITHM", "HS256"),

		AccessTTL:  getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL: getEnvDurationOrDefault("REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),

		AdminEmails: splitCSV(os.Getenv("WHITELIST_ADMIN_EMAILS")),

		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "blog.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	// The verification allow-list defaults to exactly the signing algorithm.
	// It is configuration, never derived from token input.
	cfg.AllowedAlgorithms = splitCSV(os.Getenv("JWT_ALLOWED_ALGORITHMS"))
	if len(cfg.AllowedAlgorithms) == 0 {
		cfg.AllowedAlgorithms = []string{cfg.Algorithm}
	}

	return cfg
}

// Validate reports configuration errors that must halt startup.
func (cfg Config) Validate() error {
	if len(cfg.AccessSecret) < jwtx.MinSecretBytes {
		return errors.New("JWT_ACCESS_SECRET must be set to at least 32 bytes")
	}
	if len(cfg.RefreshSecret) < jwtx.MinSecretBytes {
		return errors.New("JWT_REFRESH_SECRET must be set to at least 32 bytes")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
