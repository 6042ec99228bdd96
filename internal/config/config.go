package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	DBPath              string
	LogLevel            string
	WordLimit           int
	SnapshotWorkerCount int
	SnapshotQueueSize   int
	SnapshotRefreshHour int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:memorly.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		WordLimit:           envIntOr("WORD_LIMIT", 500),
		SnapshotWorkerCount: envIntOr("SNAPSHOT_WORKER_COUNT", 2),
		SnapshotQueueSize:   envIntOr("SNAPSHOT_QUEUE_SIZE", 64),
		SnapshotRefreshHour: envIntOr("SNAPSHOT_REFRESH_HOUR", 0),
	}
}

// Validate checks the configuration and reports every problem found.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not a valid level", c.LogLevel))
	}
	if c.WordLimit <= 0 {
		problems = append(problems, "WORD_LIMIT must be positive")
	}
	if c.SnapshotWorkerCount <= 0 {
		problems = append(problems, "SNAPSHOT_WORKER_COUNT must be positive")
	}
	if c.SnapshotQueueSize <= 0 {
		problems = append(problems, "SNAPSHOT_QUEUE_SIZE must be positive")
	}
	if c.SnapshotRefreshHour < 0 || c.SnapshotRefreshHour > 23 {
		problems = append(problems, "SNAPSHOT_REFRESH_HOUR must be between 0 and 23")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
