package storage

import (
	"context"
	"fmt"
	"os"
)

var (
	// ErrNotFound is returned when a named object does not exist.
	// It maps to os.ErrNotExist so errors.Is works with filesystem errors too.
	ErrNotFound = os.ErrNotExist

	// ErrExists is returned when a write targets an existing object and
	// overwriting was not requested.
	ErrExists = os.ErrExist
)

// Store persists named byte content under one destination root.
//
// Names are slash-separated and relative to the root. Implementations must be
// safe for concurrent use.
type Store interface {
	// Put writes data under name, replacing any existing content.
	Put(ctx context.Context, name string, data []byte) error

	// Get reads the full content stored under name.
	Get(ctx context.Context, name string) ([]byte, error)

	// Exists reports whether name is present.
	Exists(ctx context.Context, name string) (bool, error)

	// List returns the sorted names under the root that start with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Credentials carries access settings for object-store backends.
//
// Empty fields fall back to the backend's default resolution (environment,
// shared config files, instance metadata). The local backend ignores them.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string
	// Endpoint overrides the service endpoint, e.g. for S3-compatible stores.
	Endpoint string
	// Insecure disables TLS for MinIO endpoints.
	Insecure bool
}

func (c *Credentials) static() bool {
	return c != nil && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// WriterError reports a failed write or a failure to obtain a writer.
//
// The underlying cause (ErrExists, a permission error, a network fault) is
// available via errors.Unwrap and errors.Is.
type WriterError struct {
	// Path is the destination the writer is bound to.
	Path string
	// Name is the file being written; empty when the writer itself could not be created.
	Name string
	Err  error
}

func (e *WriterError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("failed to open writer for %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to write %s to %s: %v", e.Name, e.Path, e.Err)
}

func (e *WriterError) Unwrap() error { return e.Err }
