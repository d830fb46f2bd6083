package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Log file to watch (written by the game client)
	LogPath string

	// Poll settings
	ReadBudget   int           // max trailing lines considered per poll
	PollInterval time.Duration // scheduler tick
	Debounce     time.Duration // quiet period coalescing rapid change signals

	// Parsing
	Marker       string // connection-event marker substring, empty uses the built-in
	PatternsPath string // optional YAML file with extra pattern variants

	// Presentation
	RegionMapPath string // optional YAML map of region codes to display names
	StatusAddr    string // HTTP status endpoint address, empty disables it

	// History journal
	HistoryDBPath string // BoltDB file, empty disables the journal

	// ClickHouse mirror (optional fleet-level history sink)
	ClickHouseEnabled bool
	ClickHouseHost    string
	ClickHousePort    int
	ClickHouseDB      string

	// Observability
	LogLevel        string
	TracingEnabled  bool
	TracingEndpoint string
	TracingProtocol string // "grpc" or "http"
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		LogPath: getEnv("LOG_PATH", ""),

		ReadBudget:   getEnvInt("READ_BUDGET", 5000),
		PollInterval: time.Duration(getEnvInt("POLL_INTERVAL_MS", 1000)) * time.Millisecond,
		Debounce:     time.Duration(getEnvInt("DEBOUNCE_MS", 250)) * time.Millisecond,

		Marker:       getEnv("MARKER", ""),
		PatternsPath: getEnv("PATTERNS_PATH", ""),

		RegionMapPath: getEnv("REGION_MAP_PATH", ""),
		StatusAddr:    getEnv("STATUS_ADDR", ""),

		HistoryDBPath: getEnv("HISTORY_DB_PATH", "connmon.db"),

		ClickHouseEnabled: getEnvBool("CLICKHOUSE_ENABLED", false),
		ClickHouseHost:    getEnv("CLICKHOUSE_HOST", "localhost"),
		ClickHousePort:    getEnvInt("CLICKHOUSE_PORT", 9000),
		ClickHouseDB:      getEnv("CLICKHOUSE_DB", "connmon"),

		LogLevel:        getEnv("LOG_LEVEL", "info"),
		TracingEnabled:  getEnvBool("TRACING_ENABLED", false),
		TracingEndpoint: getEnv("TRACING_ENDPOINT", ""),
		TracingProtocol: getEnv("TRACING_PROTOCOL", "grpc"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.LogPath == "" {
		return fmt.Errorf("LOG_PATH is required")
	}
	if c.ReadBudget < 1 {
		return fmt.Errorf("READ_BUDGET must be at least 1")
	}
	if c.PollInterval < 100*time.Millisecond {
		return fmt.Errorf("POLL_INTERVAL_MS must be at least 100")
	}
	if c.Debounce < 0 {
		return fmt.Errorf("DEBOUNCE_MS must not be negative")
	}
	if c.ClickHouseEnabled {
		if c.ClickHouseHost == "" {
			return fmt.Errorf("CLICKHOUSE_HOST is required when CLICKHOUSE_ENABLED is set")
		}
		if c.ClickHousePort <= 0 || c.ClickHousePort > 65535 {
			return fmt.Errorf("CLICKHOUSE_PORT must be between 1 and 65535")
		}
		if c.ClickHouseDB == "" {
			return fmt.Errorf("CLICKHOUSE_DB is required when CLICKHOUSE_ENABLED is set")
		}
	}
	if c.TracingProtocol != "grpc" && c.TracingProtocol != "http" {
		return fmt.Errorf("TRACING_PROTOCOL must be 'grpc' or 'http'")
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
