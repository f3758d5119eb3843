package storage

import (
	"context"
)

// WriterOptions bind a writer to an overwrite policy and credentials.
type WriterOptions struct {
	// Overwrite allows replacing existing files. When false, writing to an
	// existing name fails with a *WriterError wrapping ErrExists.
	Overwrite bool

	// Credentials for object-store destinations; nil uses the default chain.
	Credentials *Credentials
}

// ParallelWriter writes many named files under one destination.
// It is safe for concurrent use; each Write is independent.
type ParallelWriter struct {
	path      string
	store     Store
	overwrite bool
}

// NewParallelWriter returns a writer for path, choosing the backend from the
// path's scheme.
func NewParallelWriter(ctx context.Context, path string, opts WriterOptions) (*ParallelWriter, error) {
	store, err := Open(ctx, path, opts.Credentials)
	if err != nil {
		return nil, &WriterError{Path: path, Err: err}
	}
	return &ParallelWriter{path: path, store: store, overwrite: opts.Overwrite}, nil
}

// Path returns the destination the writer is bound to.
func (w *ParallelWriter) Path() string {
	return w.path
}

// Write persists data under name relative to the destination.
func (w *ParallelWriter) Write(ctx context.Context, name string, data []byte) error {
	return put(ctx, w.store, w.path, name, data, w.overwrite)
}

// FileWriter writes exactly one named file at a destination.
type FileWriter struct {
	path      string
	name      string
	store     Store
	overwrite bool
}

// NewFileWriter returns a writer for the single file name under path.
func NewFileWriter(ctx context.Context, path, name string, opts WriterOptions) (*FileWriter, error) {
	store, err := Open(ctx, path, opts.Credentials)
	if err != nil {
		return nil, &WriterError{Path: path, Name: name, Err: err}
	}
	return &FileWriter{path: path, name: name, store: store, overwrite: opts.Overwrite}, nil
}

// Name returns the file the writer targets.
func (w *FileWriter) Name() string {
	return w.name
}

// Write persists content as the writer's file.
func (w *FileWriter) Write(ctx context.Context, content []byte) error {
	return put(ctx, w.store, w.path, w.name, content, w.overwrite)
}

// WriteString persists s as the writer's file.
func (w *FileWriter) WriteString(ctx context.Context, s string) error {
	return w.Write(ctx, []byte(s))
}

func put(ctx context.Context, store Store, path, name string, data []byte, overwrite bool) error {
	if !overwrite {
		exists, err := store.Exists(ctx, name)
		if err != nil {
			return &WriterError{Path: path, Name: name, Err: err}
		}
		if exists {
			return &WriterError{Path: path, Name: name, Err: ErrExists}
		}
	}
	if err := store.Put(ctx, name, data); err != nil {
		return &WriterError{Path: path, Name: name, Err: err}
	}
	return nil
}
