package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Issuer              string        // Optional: required "iss" of bearer tokens (default: any)
	Audience            []string      // Optional: accepted "aud" values, comma separated (default: any)
	JWKSFile            string        // JWKS file with the issuer's public keys
	JWKSURL             string        // JWKS endpoint, used when JWKSFile is unset
	JWKSRefreshInterval time.Duration // How often JWKSURL is re-fetched (default: 15m)

	SuperuserEmail    string // Optional: superuser created on startup when missing
	SuperuserPassword string // Optional: password for SuperuserEmail

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./accounts.db)
	PepperFile           string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Stale verification code sweep interval (default: 1h)
	RevealCodes          bool          // Log plaintext verification codes instead of masking them (default: false)
}

func LoadConfig() Config {
	return Config{
		Issuer:              os.Getenv("ACCOUNTS_ISSUER"),
		Audience:            splitList(os.Getenv("ACCOUNTS_AUDIENCE")),
		JWKSFile:            os.Getenv("ACCOUNTS_JWKS_FILE"),
		JWKSURL:             os.Getenv("ACCOUNTS_JWKS_URL"),
		JWKSRefreshInterval: getEnvDurationOrDefault("ACCOUNTS_JWKS_REFRESH_INTERVAL", 15*time.Minute),

		SuperuserEmail:    os.Getenv("ACCOUNTS_SUPERUSER_EMAIL"),
		SuperuserPassword: os.Getenv("ACCOUNTS_SUPERUSER_PASSWORD"),

		DatabaseFile:         getEnvOrDefault("ACCOUNTS_DATABASE_FILE", "accounts.db"),
		PepperFile:           getEnvOrDefault("ACCOUNTS_PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		RevealCodes:          getEnvBoolOrDefault("ACCOUNTS_REVEAL_CODES", false),
	}
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
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

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
