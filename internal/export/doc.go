// Package export writes image collections to PNG, TIFF, or a raw binary
// layout with a JSON manifest.
//
// Every exporter names image k "{prefix}-{k:05d}.{ext}" and hands the bytes to
// a storage.ParallelWriter bound to the destination, so local directories,
// S3 buckets and MinIO servers are handled the same way.
//
// # Binary Layout
//
// ToBinary produces:
//
//	image-00000.bin   raw little-endian samples, row-major
//	image-00001.bin
//	conf.json         {"dims": [...], "dtype": "..."}
//	SUCCESS           empty; written last
//
// Consumers must treat the destination as complete only once SUCCESS exists.
// ReadBinary enforces this.
//
// # Ordering
//
// Image writes run through ndimage.Collection.ForEach, which waits for every
// write to finish. The manifest is therefore written after all image writes
// have completed, not merely been issued, and SUCCESS after the manifest.
//
// # Errors
//
//   - *UnsupportedDimensionalityError: ToPNG/ToTIFF on images whose rank is not
//     2 or 3; checked before any writer is obtained.
//   - *EncodingError: the codec rejected one image; siblings are still written.
//   - *WriterError: destination conflict (wraps storage.ErrExists), permission
//     or I/O failure.
//
// Per-image failures are joined with errors.Join; use errors.As to find them.
// Nothing is retried.
package export
