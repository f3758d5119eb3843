package ndimage

import (
	"fmt"
	"strings"
)

// DType identifies the scalar element type of an Array.
type DType string

// Supported element types. Names follow the numpy spelling so manifests stay
// readable by other tooling.
const (
	Uint8   DType = "uint8"
	Int8    DType = "int8"
	Uint16  DType = "uint16"
	Int16   DType = "int16"
	Uint32  DType = "uint32"
	Int32   DType = "int32"
	Uint64  DType = "uint64"
	Int64   DType = "int64"
	Float32 DType = "float32"
	Float64 DType = "float64"
)

var itemSizes = map[DType]int{
	Uint8:   1,
	Int8:    1,
	Uint16:  2,
	Int16:   2,
	Uint32:  4,
	Int32:   4,
	Uint64:  8,
	Int64:   8,
	Float32: 4,
	Float64: 8,
}

// ParseDType converts a type name such as "int16" into a DType.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseDType(s string) (DType, error) {
	d := DType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := itemSizes[d]; !ok {
		return "", fmt.Errorf("unsupported dtype: %q", s)
	}
	return d, nil
}

// ItemSize returns the size of one element in bytes, or 0 for an unknown type.
func (d DType) ItemSize() int {
	return itemSizes[d]
}

// Valid reports whether d is a supported element type.
func (d DType) Valid() bool {
	_, ok := itemSizes[d]
	return ok
}

func (d DType) String() string {
	return string(d)
}
