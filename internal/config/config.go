package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Port           string
	BackendURL     string
	DataRoot       string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration
	SnapshotCache  bool
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getenv("PORT", "8081"),
		BackendURL: getenv("BACKEND_URL", "http://localhost:5000"),
		DataRoot:   getenv("DATA_ROOT", "./panel-data"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		LogFormat:  getenv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.RequestTimeout, err = time.ParseDuration(getenv("REQUEST_TIMEOUT", "10s")); err != nil {
		return nil, errors.Wrap(err, "REQUEST_TIMEOUT")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, errors.New("REQUEST_TIMEOUT must be positive")
	}
	if cfg.SnapshotCache, err = strconv.ParseBool(getenv("SNAPSHOT_CACHE", "true")); err != nil {
		return nil, errors.Wrap(err, "SNAPSHOT_CACHE")
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
