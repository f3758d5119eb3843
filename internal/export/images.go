package export

import (
	"context"
	"fmt"

	"github.com/ironsheep/image-export/internal/imaging"
	"github.com/ironsheep/image-export/internal/ndimage"
	"github.com/ironsheep/image-export/internal/storage"
)

// FileName returns the name an image with key is written under:
// "{prefix}-{key:05d}.{ext}". Keys of 100000 and above keep all their digits.
func FileName(prefix string, key int, ext string) string {
	return fmt.Sprintf("%s-%05d.%s", prefix, key, ext)
}

// ToPNG writes one PNG file per image of c under path.
//
// The images must be 2- or 3-dimensional (see imaging.ToImage for the
// accepted shapes), otherwise *UnsupportedDimensionalityError is returned
// before anything is written. A codec failure on one image yields an
// *EncodingError for that image without stopping the others; destination
// failures are *WriterError. All failures are returned joined.
func ToPNG(ctx context.Context, c *ndimage.Collection, path string, opts Options) error {
	return exportImages(ctx, c, path, opts, pngEncoder{})
}

// ToTIFF writes one TIFF file per image of c under path, with the same
// contract as ToPNG and the ".tif" extension.
func ToTIFF(ctx context.Context, c *ndimage.Collection, path string, opts Options) error {
	return exportImages(ctx, c, path, opts, tiffEncoder{compression: opts.TIFFCompression})
}

func exportImages(ctx context.Context, c *ndimage.Collection, path string, opts Options, enc encoder) error {
	if rank := len(c.Dims()); rank != 2 && rank != 3 {
		return &UnsupportedDimensionalityError{Format: enc.Format(), Rank: rank}
	}
	if err := ValidatePrefix(opts.Prefix); err != nil {
		return err
	}

	w, err := storage.NewParallelWriter(ctx, path, opts.writerOptions())
	if err != nil {
		return err
	}

	prefix := opts.prefix()
	log := opts.logger().With("format", enc.Format(), "path", path)

	err = c.ForEach(ctx, func(ctx context.Context, key int, img *ndimage.Array) error {
		name := FileName(prefix, key, enc.Extension())

		data, err := encodeArray(enc, img)
		if err != nil {
			log.WarnContext(ctx, "image encoding failed", "key", key, "error", err)
			return &EncodingError{Format: enc.Format(), Key: key, Err: err}
		}
		if err := w.Write(ctx, name, data); err != nil {
			return err
		}

		log.DebugContext(ctx, "image written", "name", name, "bytes", len(data))
		return nil
	})
	if err != nil {
		log.ErrorContext(ctx, "export failed", "images", c.Len(), "error", err)
		return err
	}

	log.InfoContext(ctx, "export completed", "images", c.Len())
	return nil
}

func encodeArray(enc encoder, a *ndimage.Array) ([]byte, error) {
	img, err := imaging.ToImage(a)
	if err != nil {
		return nil, err
	}
	return enc.Encode(img)
}
