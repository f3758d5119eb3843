// Package imaging bridges ndimage arrays and Go's image.Image types.
//
// It converts arrays into images that the PNG and TIFF encoders accept, and
// decodes image files from disk back into arrays so they can be exported.
//
// # Array Layout
//
// Arrays are row-major with the row (Y) axis first:
//   - [height, width] for single-channel data
//   - [height, width, channels] for 1, 3 or 4 interleaved channels
//
// Pixel (0,0) is the top-left corner, X increases rightward, and Y increases
// downward, matching image.Image.
//
// # Sample Depth
//
// uint8 and uint16 arrays keep their values exactly (8-bit and 16-bit images).
// Arrays of any other dtype are rescaled to the full 8-bit range, the way
// scientific image tooling saves non-byte data as a viewable picture.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Conversions are stateless and
// split rows across goroutines internally.
package imaging
