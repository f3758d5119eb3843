package imaging

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-export/internal/ndimage"
)

// ToImage converts an array into an image.Image suitable for an encoder.
//
// Supported shapes:
//   - [height, width]: grayscale
//   - [height, width, 1]: grayscale
//   - [height, width, 3]: RGB (fully opaque)
//   - [height, width, 4]: RGBA (non-premultiplied)
//
// # Sample Depth
//
// uint8 arrays produce 8-bit images and uint16 arrays produce 16-bit images,
// with sample values copied unchanged. Every other dtype is linearly rescaled
// so the array minimum maps to 0 and the maximum to 255; a constant array
// maps to 0.
//
// Returns an error for any other rank or channel count.
func ToImage(a *ndimage.Array) (image.Image, error) {
	h, w, channels, err := planeShape(a.Shape)
	if err != nil {
		return nil, err
	}
	if want := a.Len() * a.DType.ItemSize(); len(a.Data) != want {
		return nil, fmt.Errorf("buffer holds %d bytes, shape %v of %s needs %d", len(a.Data), a.Shape, a.DType, want)
	}

	switch a.DType {
	case ndimage.Uint8:
		return toImage8(h, w, channels, func(i int) uint8 { return a.Data[i] }), nil
	case ndimage.Uint16:
		return toImage16(h, w, channels, func(i int) uint16 {
			return binary.LittleEndian.Uint16(a.Data[2*i:])
		}), nil
	}

	lo, hi := sampleRange(a)
	scale := 0.0
	if hi > lo {
		scale = 255 / (hi - lo)
	}
	return toImage8(h, w, channels, func(i int) uint8 {
		v := (a.Float(i)-lo)*scale + 0.5
		if math.IsNaN(v) {
			return 0
		}
		return uint8(math.Min(math.Max(v, 0), 255))
	}), nil
}

func planeShape(shape []int) (h, w, channels int, err error) {
	switch len(shape) {
	case 2:
		return shape[0], shape[1], 1, nil
	case 3:
		switch shape[2] {
		case 1, 3, 4:
			return shape[0], shape[1], shape[2], nil
		}
		return 0, 0, 0, fmt.Errorf("unsupported channel count %d: want 1, 3 or 4", shape[2])
	}
	return 0, 0, 0, fmt.Errorf("unsupported array rank %d: want 2 or 3", len(shape))
}

// sampleRange returns the minimum and maximum sample, ignoring NaN. An
// all-NaN array yields (0, 0).
func sampleRange(a *ndimage.Array) (lo, hi float64) {
	seen := false
	for i := 0; i < a.Len(); i++ {
		v := a.Float(i)
		if math.IsNaN(v) {
			continue
		}
		if !seen {
			lo, hi, seen = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func toImage8(h, w, channels int, at func(i int) uint8) image.Image {
	if channels == 1 {
		img := image.NewGray(image.Rect(0, 0, w, h))
		parallel.Line(h, func(start, end int) {
			for y := start; y < end; y++ {
				row := img.Pix[y*img.Stride : y*img.Stride+w]
				for x := range row {
					row[x] = at(y*w + x)
				}
			}
		})
		return img
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				src := (y*w + x) * channels
				dst := y*img.Stride + x*4
				img.Pix[dst+0] = at(src + 0)
				img.Pix[dst+1] = at(src + 1)
				img.Pix[dst+2] = at(src + 2)
				if channels == 4 {
					img.Pix[dst+3] = at(src + 3)
				} else {
					img.Pix[dst+3] = 0xff
				}
			}
		}
	})
	return img
}

func toImage16(h, w, channels int, at func(i int) uint16) image.Image {
	// Pix of the 16-bit image types is big-endian.
	if channels == 1 {
		img := image.NewGray16(image.Rect(0, 0, w, h))
		parallel.Line(h, func(start, end int) {
			for y := start; y < end; y++ {
				for x := 0; x < w; x++ {
					binary.BigEndian.PutUint16(img.Pix[y*img.Stride+x*2:], at(y*w+x))
				}
			}
		})
		return img
	}

	img := image.NewNRGBA64(image.Rect(0, 0, w, h))
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				src := (y*w + x) * channels
				dst := img.Pix[y*img.Stride+x*8:]
				binary.BigEndian.PutUint16(dst[0:], at(src+0))
				binary.BigEndian.PutUint16(dst[2:], at(src+1))
				binary.BigEndian.PutUint16(dst[4:], at(src+2))
				alpha := uint16(0xffff)
				if channels == 4 {
					alpha = at(src + 3)
				}
				binary.BigEndian.PutUint16(dst[6:], alpha)
			}
		}
	})
	return img
}

// FromImage converts a decoded image into an array.
//
// Grayscale images become [height, width] arrays (uint8 or uint16 by depth).
// 16-bit colour images become uint16 [height, width, 4]; all other images are
// normalised to non-premultiplied RGBA and become uint8 [height, width, 4].
//
// Returns an error for an image with no pixels.
func FromImage(img image.Image) (*ndimage.Array, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("image has no pixels: %dx%d", w, h)
	}

	switch src := img.(type) {
	case *image.Gray:
		a, _ := ndimage.NewArray([]int{h, w}, ndimage.Uint8)
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(a.Data[y*w:(y+1)*w], src.Pix[off:off+w])
		}
		return a, nil
	case *image.Gray16:
		a, _ := ndimage.NewArray([]int{h, w}, ndimage.Uint16)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := src.Gray16At(b.Min.X+x, b.Min.Y+y).Y
				binary.LittleEndian.PutUint16(a.Data[2*(y*w+x):], v)
			}
		}
		return a, nil
	case *image.NRGBA64, *image.RGBA64:
		a, _ := ndimage.NewArray([]int{h, w, 4}, ndimage.Uint16)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBA64Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
				off := 8 * (y*w + x)
				binary.LittleEndian.PutUint16(a.Data[off+0:], c.R)
				binary.LittleEndian.PutUint16(a.Data[off+2:], c.G)
				binary.LittleEndian.PutUint16(a.Data[off+4:], c.B)
				binary.LittleEndian.PutUint16(a.Data[off+6:], c.A)
			}
		}
		return a, nil
	}

	// imaging.Clone always yields a zero-origin *image.NRGBA.
	nrgba := imaging.Clone(img)
	a, _ := ndimage.NewArray([]int{h, w, 4}, ndimage.Uint8)
	for y := 0; y < h; y++ {
		copy(a.Data[y*w*4:(y+1)*w*4], nrgba.Pix[y*nrgba.Stride:y*nrgba.Stride+w*4])
	}
	return a, nil
}
