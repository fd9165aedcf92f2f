package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application's runtime parameters.
type Config struct {
	ServerPort       int
	SnapshotPath     string
	SnapshotInterval time.Duration
}

// Load reads configuration from environment variables. A .env file is loaded
// first if present; a missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	snapshotPath := os.Getenv("SNAPSHOT_PATH")
	if snapshotPath == "" {
		snapshotPath = "matchday.db"
	}

	intervalStr := os.Getenv("SNAPSHOT_INTERVAL_SECONDS")
	if intervalStr == "" {
		intervalStr = "30"
	}
	intervalSec, err := strconv.Atoi(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_INTERVAL_SECONDS environment variable: %w", err)
	}
	if intervalSec <= 0 {
		return nil, fmt.Errorf("SNAPSHOT_INTERVAL_SECONDS must be positive, got %d", intervalSec)
	}

	cfg := &Config{
		ServerPort:       port,
		SnapshotPath:     snapshotPath,
		SnapshotInterval: time.Duration(intervalSec) * time.Second,
	}

	return cfg, nil
}
