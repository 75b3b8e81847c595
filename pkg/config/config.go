package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string

	MediaHostBaseURL string
	MediaAccountID   string
	// UploadPresets is the ordered credential list: first entry is the
	// primary preset, the rest are fallbacks tried in order.
	UploadPresets      []string
	UploadTimeout      time.Duration
	UploadRetryBackoff time.Duration

	BackendBaseURL string
	BackendTimeout time.Duration

	BearerToken string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		MediaHostBaseURL:   getEnv("MEDIA_HOST_BASE_URL", "https://media.shopkeep.app"),
		MediaAccountID:     getEnv("MEDIA_ACCOUNT_ID", ""),
		UploadPresets:      splitPresets(getEnv("MEDIA_UPLOAD_PRESETS", "")),
		UploadTimeout:      time.Duration(getEnvAsInt64("MEDIA_UPLOAD_TIMEOUT_SECONDS", 60)) * time.Second,
		UploadRetryBackoff: time.Duration(getEnvAsInt64("MEDIA_RETRY_BACKOFF_MS", 500)) * time.Millisecond,
		BackendBaseURL:     getEnv("BACKEND_BASE_URL", "http://localhost:9000"),
		BackendTimeout:     time.Duration(getEnvAsInt64("BACKEND_TIMEOUT_SECONDS", 30)) * time.Second,
		BearerToken:        getEnv("BEARER_TOKEN", ""),
	}

	return config, nil
}

func splitPresets(raw string) []string {
	if raw == "" {
		return nil
	}

	var presets []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			presets = append(presets, p)
		}
	}
	return presets
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
