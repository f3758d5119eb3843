package export

import (
	"errors"
	"fmt"

	"github.com/ironsheep/image-export/internal/storage"
)

// ErrIncomplete is returned by ReadBinary when the destination lacks the
// SUCCESS marker, meaning the export never finished.
var ErrIncomplete = errors.New("export incomplete: SUCCESS marker missing")

// WriterError is the error type for destination failures (existing file
// without overwrite, permissions, I/O, credentials).
type WriterError = storage.WriterError

// UnsupportedDimensionalityError is returned by ToPNG and ToTIFF when the
// collection's images are not 2- or 3-dimensional. It is raised before any
// writer is obtained, so nothing has been written.
type UnsupportedDimensionalityError struct {
	Format string
	Rank   int
}

func (e *UnsupportedDimensionalityError) Error() string {
	return fmt.Sprintf("only 2D or 3D images can be exported to %s, images are %d-dimensional", e.Format, e.Rank)
}

// EncodingError reports that the codec rejected one image. Other images of
// the same export are still written.
//
// The original underlying error can be accessed via errors.Unwrap.
type EncodingError struct {
	Format string
	Key    int
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode image %d as %s: %v", e.Key, e.Format, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }
