// Package ndimage provides the dense n-dimensional arrays and keyed image
// collections consumed by the exporters.
//
// An Array is a shape, an element type, and a little-endian raw buffer in
// row-major order. A Collection is an ordered set of (key, Array) pairs that
// all share one shape and one element type.
//
// # Traversal
//
// Collection.ForEach applies a function to every pair. With the default
// parallelism of 1 the pairs are visited sequentially in order of appearance;
// WithParallelism(n) lets up to n calls run concurrently. ForEach always waits
// for every call to return and reports all failures joined together, so one
// failing element never stops its siblings.
//
// # Ownership
//
// Collections and arrays are only read by traversal. Array.Bytes returns a
// copy, which callers hand to writers that may retain the buffer.
package ndimage
