package gcs

// Config locates the session objects in Cloud Storage.
type Config struct {
	// Bucket is the bucket holding session objects. Required.
	Bucket string

	// Prefix is prepended to every key to form the object name.
	Prefix string

	// Endpoint overrides the storage API endpoint, e.g. for a local emulator.
	// When set the client runs without authentication.
	Endpoint string
}
