package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/dvloznov/expense-tracker/internal/session"
)

// Store keeps each key as a small text object in a Cloud Storage bucket.
// It assumes Application Default Credentials unless Config.Endpoint is set.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

// NewStore creates a storage client and binds it to the configured bucket.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("NewStore: bucket is required")
	}

	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewStore: creating storage client: %w", err)
	}

	return &Store{
		client: client,
		bucket: client.Bucket(cfg.Bucket),
		prefix: cfg.Prefix,
	}, nil
}

// Close releases the storage client.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Get implements the KeyValueStore interface.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	name := objectName(s.prefix, key)

	rc, err := s.bucket.Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("gcs Get: reading object %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", false, fmt.Errorf("gcs Get: reading bytes: %w", err)
	}
	return string(data), true, nil
}

// Set implements the KeyValueStore interface.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("gcs Set: key is required")
	}
	name := objectName(s.prefix, key)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = "text/plain; charset=utf-8"

	if _, err := io.Copy(w, strings.NewReader(value)); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcs Set: writing object %s: %w", name, err)
	}

	// Close finalizes the upload.
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs Set: finalize object %s: %w", name, err)
	}
	return nil
}

// Delete implements the KeyValueStore interface.
func (s *Store) Delete(ctx context.Context, key string) error {
	name := objectName(s.prefix, key)

	err := s.bucket.Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs Delete: deleting object %s: %w", name, err)
	}
	return nil
}

// objectName joins prefix and key into an object path.
// e.g., ("sessions/dev", "isAuthenticated") → "sessions/dev/isAuthenticated"
func objectName(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}

var _ session.KeyValueStore = (*Store)(nil)
