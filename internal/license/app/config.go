package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer        string        // Required: issuer claim for session tokens
	SessionSecret string        // Required: HMAC key for session tokens (min 32 bytes)
	SessionTTL    time.Duration // Optional: session token lifetime (default: 24h)
	AdminToken    string        // Required to enable administrative routes

	ArtifactURL   string // Required: upstream URL the loader binary is proxied from
	LoaderVersion string // Required: latest published loader version, e.g. "1.4.0"
	DownloadURL   string // Optional: public URL advertised on update checks
	Changelog     string // Optional: changelog text advertised on update checks

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./license.db)
	PepperFile          string        // Optional: path to pepper file for password hashing (default: ./pepper)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:              getEnvOrDefault("LICENSE_ISSUER", "keygate"),
		SessionSecret:       os.Getenv("LICENSE_SESSION_SECRET"),
		SessionTTL:          getEnvDurationOrDefault("LICENSE_SESSION_TTL", 24*time.Hour),
		AdminToken:          os.Getenv("LICENSE_ADMIN_TOKEN"),
		ArtifactURL:         os.Getenv("LICENSE_ARTIFACT_URL"),
		LoaderVersion:       os.Getenv("LICENSE_LOADER_VERSION"),
		DownloadURL:         os.Getenv("LICENSE_DOWNLOAD_URL"),
		Changelog:           os.Getenv("LICENSE_CHANGELOG"),
		DatabaseFile:        getEnvOrDefault("LICENSE_DATABASE_FILE", "license.db"),
		PepperFile:          getEnvOrDefault("LICENSE_PEPPER_FILE", "pepper"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
