// Package config loads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Session backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendGCS    = "gcs"
)

// Config holds the settings shared by the API server and the CLI.
type Config struct {
	Port       string
	LogLevel   string
	LogJSON    bool
	CORSOrigin string

	SessionBackend string
	SessionFile    string

	GCSBucket   string
	GCSPrefix   string
	GCSEndpoint string
}

// Load reads the given .env files (missing files are ignored) and then the
// process environment. Variables already set in the environment win over
// values from the files. Callers apply flag overrides and then call Validate.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config Load: reading %s: %w", f, err)
		}
	}

	cfg := Config{
		Port:           env("PORT", "8080"),
		LogLevel:       env("LOG_LEVEL", "info"),
		LogJSON:        strings.EqualFold(env("LOG_FORMAT", "console"), "json"),
		CORSOrigin:     env("CORS_ORIGIN", "*"),
		SessionBackend: strings.ToLower(env("SESSION_BACKEND", BackendMemory)),
		SessionFile:    env("SESSION_FILE", defaultSessionFile()),
		GCSBucket:      os.Getenv("GCS_BUCKET"),
		GCSPrefix:      env("GCS_PREFIX", "sessions"),
		GCSEndpoint:    os.Getenv("GCS_ENDPOINT"),
	}
	return cfg, nil
}

// Validate checks that the selected session backend has what it needs.
func (c Config) Validate() error {
	switch c.SessionBackend {
	case BackendMemory:
	case BackendFile:
		if c.SessionFile == "" {
			return fmt.Errorf("SESSION_FILE is required for the %s backend", BackendFile)
		}
	case BackendGCS:
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required for the %s backend", BackendGCS)
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q (want %s, %s or %s)",
			c.SessionBackend, BackendMemory, BackendFile, BackendGCS)
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".expense-tracker", "session.json")
	}
	return filepath.Join(home, ".expense-tracker", "session.json")
}
