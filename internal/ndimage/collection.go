package ndimage

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Item is one keyed image of a Collection.
type Item struct {
	Key   int
	Image *Array
}

// Collection is an ordered set of keyed images sharing one shape and dtype.
//
// A Collection is read-only after construction and safe for concurrent use.
type Collection struct {
	dims        []int
	dtype       DType
	items       []Item
	parallelism int
}

// Option configures a Collection.
type Option func(*Collection)

// WithParallelism sets how many ForEach calls may run at once.
// Values below 1 are treated as 1 (sequential traversal).
func WithParallelism(n int) Option {
	return func(c *Collection) {
		if n < 1 {
			n = 1
		}
		c.parallelism = n
	}
}

// WithShape declares dims and dtype up front. It is required for an empty
// collection and, when items are present, they must match it.
func WithShape(dims []int, dtype DType) Option {
	return func(c *Collection) {
		c.dims = append([]int(nil), dims...)
		c.dtype = dtype
	}
}

// NewCollection builds a collection from items, preserving their order.
//
// Every image must share the same shape and dtype, and keys must be unique.
func NewCollection(items []Item, opts ...Option) (*Collection, error) {
	c := &Collection{parallelism: 1}
	for _, opt := range opts {
		opt(c)
	}

	if len(items) == 0 && c.dims == nil {
		return nil, errors.New("empty collection requires an explicit shape")
	}
	if c.dims == nil {
		first := items[0].Image
		if first == nil {
			return nil, fmt.Errorf("image for key %d is nil", items[0].Key)
		}
		c.dims = append([]int(nil), first.Shape...)
		c.dtype = first.DType
	}
	if !c.dtype.Valid() {
		return nil, fmt.Errorf("unsupported dtype: %q", c.dtype)
	}

	seen := make(map[int]struct{}, len(items))
	for _, it := range items {
		if it.Image == nil {
			return nil, fmt.Errorf("image for key %d is nil", it.Key)
		}
		if _, dup := seen[it.Key]; dup {
			return nil, fmt.Errorf("duplicate key %d", it.Key)
		}
		seen[it.Key] = struct{}{}
		if !slices.Equal(it.Image.Shape, c.dims) {
			return nil, fmt.Errorf("image %d has shape %v, collection shape is %v", it.Key, it.Image.Shape, c.dims)
		}
		if it.Image.DType != c.dtype {
			return nil, fmt.Errorf("image %d has dtype %s, collection dtype is %s", it.Key, it.Image.DType, c.dtype)
		}
		if want := it.Image.Len() * c.dtype.ItemSize(); len(it.Image.Data) != want {
			return nil, fmt.Errorf("image %d holds %d bytes, shape %v of %s needs %d", it.Key, len(it.Image.Data), c.dims, c.dtype, want)
		}
	}

	c.items = append([]Item(nil), items...)
	return c, nil
}

// Dims returns a copy of the per-image shape.
func (c *Collection) Dims() []int {
	return append([]int(nil), c.dims...)
}

// DType returns the element type shared by every image.
func (c *Collection) DType() DType {
	return c.dtype
}

// Len returns the number of images.
func (c *Collection) Len() int {
	return len(c.items)
}

// Keys returns the image keys in order of appearance.
func (c *Collection) Keys() []int {
	keys := make([]int, len(c.items))
	for i, it := range c.items {
		keys[i] = it.Key
	}
	return keys
}

// Get returns the image stored under key.
func (c *Collection) Get(key int) (*Array, bool) {
	for _, it := range c.items {
		if it.Key == key {
			return it.Image, true
		}
	}
	return nil, false
}

// Parallelism returns the configured traversal width.
func (c *Collection) Parallelism() int {
	return c.parallelism
}

// ForEach calls fn for every (key, image) pair and waits for all calls to
// finish. Failures are collected and returned joined; a failing call does not
// prevent the remaining calls from running.
//
// With parallelism 1 calls are made one at a time in order of appearance and
// a cancelled ctx stops the traversal before the next call.
func (c *Collection) ForEach(ctx context.Context, fn func(ctx context.Context, key int, img *Array) error) error {
	if c.parallelism <= 1 {
		var errs []error
		for _, it := range c.items {
			if err := ctx.Err(); err != nil {
				errs = append(errs, err)
				break
			}
			if err := fn(ctx, it.Key, it.Image); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	errs := make([]error, len(c.items))
	var g errgroup.Group
	g.SetLimit(c.parallelism)
	for i, it := range c.items {
		g.Go(func() error {
			errs[i] = fn(ctx, it.Key, it.Image)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
