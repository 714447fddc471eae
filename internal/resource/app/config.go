package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer             string // Issuer expected on incoming tokens
	JWTSecret          string // Shared HS256 verification secret (or use JWTSecretFile)
	JWTSecretFile      string
	InternalSecret     string // Shared service-to-service secret (or use InternalSecretFile)
	InternalSecretFile string

	DatabaseFile string // Optional: path to SQLite database file (default: ./resource.db)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8081)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:             getEnvOrDefault("AUTH_ISSUER", "campus-auth"),
		JWTSecret:          os.Getenv("RESOURCE_JWT_SECRET"),
		JWTSecretFile:      os.Getenv("RESOURCE_JWT_SECRET_FILE"),
		InternalSecret:     os.Getenv("INTERNAL_SECRET"),
		InternalSecretFile: os.Getenv("INTERNAL_SECRET_FILE"),

		DatabaseFile: getEnvOrDefault("RESOURCE_DATABASE_FILE", "resource.db"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8081),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
