package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dvloznov/expense-tracker/internal/config"
	"github.com/dvloznov/expense-tracker/internal/gcs"
	"github.com/dvloznov/expense-tracker/internal/session/file"
	"github.com/dvloznov/expense-tracker/internal/session/inmemory"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	tests := []struct {
		name    string
		cfg     config.Config
		check   func(t *testing.T, kv any)
		wantErr bool
	}{
		{
			name: "memory",
			cfg:  config.Config{SessionBackend: config.BackendMemory},
			check: func(t *testing.T, kv any) {
				if _, ok := kv.(*inmemory.Store); !ok {
					t.Errorf("got %T, want *inmemory.Store", kv)
				}
			},
		},
		{
			name: "file",
			cfg:  config.Config{SessionBackend: config.BackendFile, SessionFile: sessionFile},
			check: func(t *testing.T, kv any) {
				fs, ok := kv.(*file.Store)
				if !ok {
					t.Fatalf("got %T, want *file.Store", kv)
				}
				if fs.Path() != sessionFile {
					t.Errorf("Path() = %q", fs.Path())
				}
			},
		},
		{
			name: "gcs emulator",
			cfg:  config.Config{SessionBackend: config.BackendGCS, GCSBucket: "b", GCSEndpoint: "http://127.0.0.1:4443/storage/v1/"},
			check: func(t *testing.T, kv any) {
				if _, ok := kv.(*gcs.Store); !ok {
					t.Errorf("got %T, want *gcs.Store", kv)
				}
			},
		},
		{
			name:    "gcs without bucket",
			cfg:     config.Config{SessionBackend: config.BackendGCS},
			wantErr: true,
		},
		{
			name:    "unknown",
			cfg:     config.Config{SessionBackend: "redis"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, closer, err := Open(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer closer.Close()
			tt.check(t, kv)
		})
	}
}
