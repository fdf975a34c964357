// Package backend opens the session KeyValueStore selected by configuration.
package backend

import (
	"context"
	"fmt"
	"io"

	"github.com/dvloznov/expense-tracker/internal/config"
	"github.com/dvloznov/expense-tracker/internal/gcs"
	"github.com/dvloznov/expense-tracker/internal/session"
	"github.com/dvloznov/expense-tracker/internal/session/file"
	"github.com/dvloznov/expense-tracker/internal/session/inmemory"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the configured store and a closer that releases it.
func Open(ctx context.Context, cfg config.Config) (session.KeyValueStore, io.Closer, error) {
	switch cfg.SessionBackend {
	case config.BackendMemory, "":
		return inmemory.NewStore(), nopCloser{}, nil
	case config.BackendFile:
		return file.NewStore(cfg.SessionFile), nopCloser{}, nil
	case config.BackendGCS:
		s, err := gcs.NewStore(ctx, gcs.Config{
			Bucket:   cfg.GCSBucket,
			Prefix:   cfg.GCSPrefix,
			Endpoint: cfg.GCSEndpoint,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("backend Open: %w", err)
		}
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("backend Open: unknown session backend %q", cfg.SessionBackend)
}
