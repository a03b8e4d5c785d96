package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBrowserEndpoint = "/generate"
	DefaultCLIEndpoint     = "http://localhost:5001/generate"
)

type Config struct {
	Endpoint string

	LogLevel string

	PreferIPv4          bool
	HTTPTimeout         time.Duration
	PreviewMaxDimension int
}

// Load reads the environment. An empty FITCHECK_ENDPOINT falls back to
// defaultEndpoint, which differs between the browser and the CLI.
func Load(defaultEndpoint string) Config {
	cfg := Config{
		Endpoint:            strings.TrimSpace(getEnv("FITCHECK_ENDPOINT", defaultEndpoint)),
		LogLevel:            strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		PreferIPv4:          getEnvBool("PREFER_IPV4", true),
		HTTPTimeout:         time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 0)) * time.Second,
		PreviewMaxDimension: getEnvInt("PREVIEW_MAX_DIMENSION", 1024),
	}

	if cfg.HTTPTimeout < 0 {
		cfg.HTTPTimeout = 0
	}
	if cfg.PreviewMaxDimension < 1 {
		cfg.PreviewMaxDimension = 1024
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
