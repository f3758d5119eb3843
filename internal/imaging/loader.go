package imaging

import (
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-export/internal/ndimage"
)

// ImageCache provides thread-safe caching of decoded images to avoid redundant disk reads.
//
// The cache stores decoded image.Image objects keyed by their file path. Once an image
// is loaded, subsequent Load() calls for the same path return the cached copy without
// disk I/O.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
// A long-running server exporting many source files should evict them once the
// export has been written.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk if not cached.
//
// Supported formats are those understood by github.com/disintegration/imaging:
// PNG, JPEG, GIF, TIFF and BMP. EXIF orientation is not applied; pixels are
// returned as stored.
//
// The image is cached using the exact path string provided. Different paths to the
// same file (e.g., relative vs absolute) will result in separate cache entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// LoadCollection decodes every path and assembles them into a collection.
//
// Parameters:
//   - cache: The image cache to use for loading. Must not be nil.
//   - paths: Image files; paths[i] becomes the image with key i.
//   - opts: Collection options such as ndimage.WithParallelism.
//
// All files must decode to the same shape and dtype (see FromImage), otherwise
// an error naming the offending file is returned.
func LoadCollection(cache *ImageCache, paths []string, opts ...ndimage.Option) (*ndimage.Collection, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no image files given")
	}

	items := make([]ndimage.Item, 0, len(paths))
	for i, p := range paths {
		img, err := cache.Load(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		arr, err := FromImage(img)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		items = append(items, ndimage.Item{Key: i, Image: arr})
	}

	c, err := ndimage.NewCollection(items, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build collection: %w", err)
	}
	return c, nil
}
