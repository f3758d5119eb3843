package export

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ironsheep/image-export/internal/ndimage"
	"github.com/ironsheep/image-export/internal/storage"
)

// ReadOptions control ReadBinary.
type ReadOptions struct {
	// Prefix selects "{prefix}-NNNNN.bin" files; empty means DefaultPrefix.
	Prefix string

	// ConfigName is the manifest filename; empty means DefaultConfigName.
	ConfigName string

	Credentials *storage.Credentials

	// Parallelism is passed to the returned collection.
	Parallelism int
}

// ReadBinary loads a binary export written by ToBinary back into a collection.
//
// The destination must contain the SUCCESS marker, otherwise ErrIncomplete is
// returned. Dims and dtype come from the manifest; every matching ".bin" file
// becomes one image, ordered by key.
func ReadBinary(ctx context.Context, path string, opts ReadOptions) (*ndimage.Collection, error) {
	store, err := storage.Open(ctx, path, opts.Credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	done, err := store.Exists(ctx, SuccessMarker)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s marker: %w", SuccessMarker, err)
	}
	if !done {
		return nil, fmt.Errorf("%s: %w", path, ErrIncomplete)
	}

	m, dtype, err := readManifest(ctx, store, opts.ConfigName)
	if err != nil {
		return nil, err
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	names, err := store.List(ctx, prefix+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}

	var items []ndimage.Item
	for _, name := range names {
		key, ok := parseKey(name, prefix, "bin")
		if !ok {
			continue
		}
		data, err := store.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		arr, err := ndimage.FromBytes(m.Dims, dtype, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		items = append(items, ndimage.Item{Key: key, Image: arr})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })

	return ndimage.NewCollection(items,
		ndimage.WithShape(m.Dims, dtype),
		ndimage.WithParallelism(opts.Parallelism),
	)
}

// ReadManifest loads only the manifest at path.
func ReadManifest(ctx context.Context, path string, opts ReadOptions) (Manifest, error) {
	store, err := storage.Open(ctx, path, opts.Credentials)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	m, _, err := readManifest(ctx, store, opts.ConfigName)
	return m, err
}

func readManifest(ctx context.Context, store storage.Store, name string) (Manifest, ndimage.DType, error) {
	if name == "" {
		name = DefaultConfigName
	}
	raw, err := store.Get(ctx, name)
	if err != nil {
		return Manifest{}, "", fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := DecodeManifest(raw)
	if err != nil {
		return Manifest{}, "", err
	}
	dtype, err := ndimage.ParseDType(m.DType)
	if err != nil {
		return Manifest{}, "", fmt.Errorf("manifest %s: %w", name, err)
	}
	return m, dtype, nil
}

// parseKey extracts the integer key from "{prefix}-{key}.{ext}".
func parseKey(name, prefix, ext string) (int, bool) {
	s, ok := strings.CutPrefix(name, prefix+"-")
	if !ok {
		return 0, false
	}
	s, ok = strings.CutSuffix(s, "."+ext)
	if !ok || s == "" {
		return 0, false
	}
	key, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return key, true
}
