package session

import "context"

// AuthKey is the key under which the session flag is persisted.
const AuthKey = "isAuthenticated"

// AuthValue is the stored value while a user is signed in.
const AuthValue = "true"

// KeyValueStore defines the persistence boundary for the session flag.
// Implementations exist for process memory, a local file and Cloud Storage.
type KeyValueStore interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
