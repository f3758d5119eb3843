package export

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"
)

// encoder turns one image into file content for a given format.
type encoder interface {
	// Format returns the format name used in errors and logs.
	Format() string

	// Extension returns the file extension without dot.
	Extension() string

	Encode(img image.Image) ([]byte, error)
}

type pngEncoder struct{}

func (pngEncoder) Format() string    { return "png" }
func (pngEncoder) Extension() string { return "png" }

func (pngEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type tiffEncoder struct {
	compression TIFFCompression
}

func (tiffEncoder) Format() string    { return "tif" }
func (tiffEncoder) Extension() string { return "tif" }

func (e tiffEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, e.compression.options()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
