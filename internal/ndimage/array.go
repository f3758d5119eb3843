package ndimage

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Array is a dense n-dimensional array of numeric samples.
//
// Data holds the elements in row-major order, little-endian, with
// Shape[len(Shape)-1] varying fastest. The zero value is not usable; build
// arrays with NewArray or FromBytes.
type Array struct {
	Shape []int
	DType DType
	Data  []byte
}

// NewArray allocates a zero-filled array of the given shape and type.
func NewArray(shape []int, dtype DType) (*Array, error) {
	n, err := elementCount(shape, dtype)
	if err != nil {
		return nil, err
	}
	return &Array{
		Shape: append([]int(nil), shape...),
		DType: dtype,
		Data:  make([]byte, n*dtype.ItemSize()),
	}, nil
}

// FromBytes wraps a copy of data as an array of the given shape and type.
//
// The length of data must equal the product of shape times the item size.
func FromBytes(shape []int, dtype DType, data []byte) (*Array, error) {
	n, err := elementCount(shape, dtype)
	if err != nil {
		return nil, err
	}
	if want := n * dtype.ItemSize(); len(data) != want {
		return nil, fmt.Errorf("buffer holds %d bytes, shape %v of %s needs %d", len(data), shape, dtype, want)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Array{
		Shape: append([]int(nil), shape...),
		DType: dtype,
		Data:  buf,
	}, nil
}

func elementCount(shape []int, dtype DType) (int, error) {
	if !dtype.Valid() {
		return 0, fmt.Errorf("unsupported dtype: %q", dtype)
	}
	n := 1
	for i, d := range shape {
		if d <= 0 {
			return 0, fmt.Errorf("dimension %d must be positive, got %d", i, d)
		}
		n *= d
	}
	return n, nil
}

// Rank returns the number of dimensions.
func (a *Array) Rank() int {
	return len(a.Shape)
}

// Len returns the number of elements. A rank-0 array holds one.
func (a *Array) Len() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

// Bytes returns a copy of the raw element buffer.
func (a *Array) Bytes() []byte {
	out := make([]byte, len(a.Data))
	copy(out, a.Data)
	return out
}

// Float returns element i (in flat row-major index) converted to float64.
func (a *Array) Float(i int) float64 {
	size := a.DType.ItemSize()
	b := a.Data[i*size : (i+1)*size]
	switch a.DType {
	case Uint8:
		return float64(b[0])
	case Int8:
		return float64(int8(b[0]))
	case Uint16:
		return float64(binary.LittleEndian.Uint16(b))
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case Uint32:
		return float64(binary.LittleEndian.Uint32(b))
	case Int32:
		return float64(int32(binary.LittleEndian.Uint32(b)))
	case Uint64:
		return float64(binary.LittleEndian.Uint64(b))
	case Int64:
		return float64(int64(binary.LittleEndian.Uint64(b)))
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return 0
}

// SetFloat stores v at flat index i, truncating toward zero for integer types.
func (a *Array) SetFloat(i int, v float64) {
	size := a.DType.ItemSize()
	b := a.Data[i*size : (i+1)*size]
	switch a.DType {
	case Uint8:
		b[0] = uint8(v)
	case Int8:
		b[0] = uint8(int8(v))
	case Uint16:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case Int16:
		binary.LittleEndian.PutUint16(b, uint16(int16(v)))
	case Uint32:
		binary.LittleEndian.PutUint32(b, uint32(v))
	case Int32:
		binary.LittleEndian.PutUint32(b, uint32(int32(v)))
	case Uint64:
		binary.LittleEndian.PutUint64(b, uint64(v))
	case Int64:
		binary.LittleEndian.PutUint64(b, uint64(int64(v)))
	case Float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	case Float64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
}
