package main

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sendrec/moviedetail/internal/engagement"
	"github.com/sendrec/moviedetail/internal/session"
	"github.com/sendrec/moviedetail/internal/storage"
)

type config struct {
	Port           string
	DatabaseURL    string
	SessionSecret  string
	SessionTTL     time.Duration
	BaseURL        string
	DefaultMovieID string
	GeoIPPath      string
	PulseDuration  time.Duration
	EnableDocs     bool
	Storage        storage.Config
}

func loadConfig() (config, error) {
	cfg := config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		SessionTTL:     time.Duration(getEnvInt64("SESSION_TTL_MINUTES", int64(session.DefaultIdleTTL/time.Minute))) * time.Minute,
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		DefaultMovieID: getEnv("DEFAULT_MOVIE_ID", "tt3896198"),
		GeoIPPath:      os.Getenv("GEOIP_DB_PATH"),
		PulseDuration:  time.Duration(getEnvInt64("PULSE_DURATION_MS", engagement.DefaultPulseDuration.Milliseconds())) * time.Millisecond,
		EnableDocs:     getEnv("API_DOCS_ENABLED", "false") == "true",
		Storage: storage.Config{
			Endpoint:       os.Getenv("S3_ENDPOINT"),
			PublicEndpoint: os.Getenv("S3_PUBLIC_ENDPOINT"),
			Bucket:         getEnv("S3_BUCKET", "moviedetail"),
			AccessKey:      os.Getenv("S3_ACCESS_KEY"),
			SecretKey:      os.Getenv("S3_SECRET_KEY"),
			Region:         getEnv("S3_REGION", "eu-central-1"),
		},
	}

	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}
	if cfg.SessionSecret == "" {
		return cfg, errors.New("SESSION_SECRET is required")
	}
	return cfg, nil
}

func (c config) secureCookies() bool {
	return strings.HasPrefix(c.BaseURL, "https://")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
