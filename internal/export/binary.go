package export

import (
	"context"

	"github.com/ironsheep/image-export/internal/ndimage"
	"github.com/ironsheep/image-export/internal/storage"
)

// ToBinary writes each image's raw little-endian samples to
// "{prefix}-{key:05d}.bin" under path, then writes the manifest and SUCCESS
// marker with WriteConfig.
//
// Any rank is accepted. The manifest is written only after every image write
// has completed and succeeded; if an image write fails the manifest and marker
// are skipped, leaving the destination visibly incomplete, and the image
// errors are returned. Files already written are not removed.
func ToBinary(ctx context.Context, c *ndimage.Collection, path string, opts Options) error {
	if err := ValidatePrefix(opts.Prefix); err != nil {
		return err
	}
	w, err := storage.NewParallelWriter(ctx, path, opts.writerOptions())
	if err != nil {
		return err
	}

	prefix := opts.prefix()
	log := opts.logger().With("format", "bin", "path", path)

	err = c.ForEach(ctx, func(ctx context.Context, key int, img *ndimage.Array) error {
		name := FileName(prefix, key, "bin")
		// The writer may keep the buffer, so it gets its own copy.
		data := img.Bytes()
		if err := w.Write(ctx, name, data); err != nil {
			return err
		}
		log.DebugContext(ctx, "image written", "name", name, "bytes", len(data))
		return nil
	})
	if err != nil {
		log.ErrorContext(ctx, "export failed, manifest not written", "images", c.Len(), "error", err)
		return err
	}

	err = WriteConfig(ctx, path, c.Dims(), c.DType().String(), ConfigOptions{
		Overwrite:   opts.Overwrite,
		Credentials: opts.Credentials,
		Logger:      opts.Logger,
	})
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "export completed", "images", c.Len(), "dims", c.Dims(), "dtype", c.DType().String())
	return nil
}
