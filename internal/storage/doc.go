// Package storage provides the destination writers used by the exporters.
//
// A destination path selects its backend by scheme:
//
//	/data/out, file:///data/out       local filesystem
//	s3://bucket/prefix                Amazon S3 (aws-sdk-go-v2)
//	minio://host:9000/bucket/prefix   MinIO or another S3-compatible server
//	mem://name                        process-wide in-memory store
//
// Additional schemes can be added with Register.
//
// # Writers
//
// NewParallelWriter binds a destination, an overwrite policy, and credentials,
// and accepts any number of concurrent Write(name, data) calls. NewFileWriter
// binds a single file name instead. Both report failures as *WriterError; a
// write to an existing name without Overwrite wraps ErrExists.
//
// The existence check and the write are two separate operations, so two
// writers racing on the same name may both succeed. Exports name every file
// uniquely, so this only matters for callers sharing a destination.
package storage
