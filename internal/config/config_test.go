package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGIN", "SESSION_BACKEND", "SESSION_FILE", "GCS_BUCKET", "GCS_PREFIX", "GCS_ENDPOINT"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" || cfg.LogLevel != "info" || cfg.LogJSON {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionBackend != BackendMemory {
		t.Errorf("SessionBackend = %q, want memory", cfg.SessionBackend)
	}
	if cfg.SessionFile == "" {
		t.Error("expected a default session file path")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	content := "PORT=9090\nLOG_FORMAT=json\nSESSION_BACKEND=gcs\nGCS_BUCKET=my-bucket\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables that are already set, even to "".
	for _, k := range []string{"PORT", "LOG_FORMAT", "SESSION_BACKEND", "GCS_BUCKET"} {
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range []string{"PORT", "LOG_FORMAT", "SESSION_BACKEND", "GCS_BUCKET"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9090" || !cfg.LogJSON || cfg.SessionBackend != BackendGCS || cfg.GCSBucket != "my-bucket" {
		t.Errorf("env file not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{SessionBackend: BackendMemory}, false},
		{"file with path", Config{SessionBackend: BackendFile, SessionFile: "/tmp/s.json"}, false},
		{"file without path", Config{SessionBackend: BackendFile}, true},
		{"gcs with bucket", Config{SessionBackend: BackendGCS, GCSBucket: "b"}, false},
		{"gcs without bucket", Config{SessionBackend: BackendGCS}, true},
		{"unknown", Config{SessionBackend: "redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
