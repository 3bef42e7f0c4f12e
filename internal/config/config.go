package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultMistralModel = "mistral-small-latest"
	DefaultSessionTTL   = 24 * time.Hour
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// Translation service (Mistral). An empty key does not prevent startup;
	// the server keeps serving liveness and answers interpret requests with
	// a configuration error.
	MistralAPIKey string
	MistralModel  string

	// Optional session snapshot store. Session endpoints are enabled only
	// when RedisAddr is set.
	RedisAddr  string
	SessionTTL time.Duration
}

func Load() *Config {
	// Best effort; the file is optional and real env vars win.
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      parseLogLevel(getEnv("LOG_LEVEL", "info")),
		MistralAPIKey: getEnv("MISTRAL_API_KEY", ""),
		MistralModel:  getEnv("MISTRAL_MODEL", DefaultMistralModel),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		SessionTTL:    parseDuration(getEnv("SESSION_TTL", ""), DefaultSessionTTL),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	// Accept plain seconds as well.
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
