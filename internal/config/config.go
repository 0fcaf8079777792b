// Package config provides environment-driven configuration for the visit graph server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Graph storage backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	Port           string
	MetricsPort    string
	ListenHost     string
	CORSOrigins    []string
	LogLevel       string
	GraphBackend   string
	GraphPath      string
	DatabaseURL    Secret
	DBMaxConns     int
	GraphCacheSize int
	WatchGraphs    bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         envOrDefault("PORT", "3040"),
		MetricsPort:  envOrDefault("METRICS_PORT", "9092"),
		ListenHost:   envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		GraphBackend: envOrDefault("GRAPH_BACKEND", BackendFile),
		GraphPath:    envOrDefault("GRAPH_PATH", "../../traces/"),
		DatabaseURL:  Secret(envOrDefault("DATABASE_URL", "")),
		WatchGraphs:  envOrDefault("WATCH_GRAPHS", "true") == "true",
	}

	cacheSize, err := strconv.Atoi(envOrDefault("GRAPH_CACHE_SIZE", "64"))
	if err != nil || cacheSize < 1 || cacheSize > 4096 {
		return nil, fmt.Errorf("GRAPH_CACHE_SIZE must be an integer between 1 and 4096")
	}
	cfg.GraphCacheSize = cacheSize

	maxConns, err := strconv.Atoi(envOrDefault("DB_MAX_CONNS", "8"))
	if err != nil || maxConns < 2 || maxConns > 200 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be an integer between 2 and 200")
	}
	cfg.DBMaxConns = maxConns

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3040")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
