package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ironsheep/image-export/internal/ndimage"
	"github.com/ironsheep/image-export/internal/storage"
)

// recordingStore is a memory store that remembers the order of Put calls and
// keeps the exact buffers it was handed.
type recordingStore struct {
	*storage.MemoryStore

	mu       sync.Mutex
	puts     []string
	retained map[string][]byte
}

func (r *recordingStore) Put(ctx context.Context, name string, data []byte) error {
	r.mu.Lock()
	r.puts = append(r.puts, name)
	r.retained[name] = data
	r.mu.Unlock()
	return r.MemoryStore.Put(ctx, name, data)
}

func (r *recordingStore) Puts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.puts...)
}

var (
	recorders   sync.Map
	recorderSeq atomic.Int64
)

func init() {
	storage.Register("rec", func(_ context.Context, loc storage.Location, _ *storage.Credentials) (storage.Store, error) {
		v, ok := recorders.Load(loc.Host)
		if !ok {
			return nil, fmt.Errorf("no recorder for %s", loc.Host)
		}
		return v.(*recordingStore), nil
	})
}

// newRecorder returns a fresh recording store and the rec:// path bound to it.
func newRecorder(t *testing.T) (*recordingStore, string) {
	t.Helper()
	host := fmt.Sprintf("r%d", recorderSeq.Add(1))
	rec := &recordingStore{MemoryStore: storage.NewMemoryStore(), retained: map[string][]byte{}}
	recorders.Store(host, rec)
	t.Cleanup(func() { recorders.Delete(host) })
	return rec, "rec://" + host
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// makeCollection builds n images of the given shape, filled so each image's
// samples start at its key.
func makeCollection(t *testing.T, n int, shape []int, dtype ndimage.DType, opts ...ndimage.Option) *ndimage.Collection {
	t.Helper()
	items := make([]ndimage.Item, n)
	for k := range items {
		a, err := ndimage.NewArray(shape, dtype)
		if err != nil {
			t.Fatalf("NewArray failed: %v", err)
		}
		for i := 0; i < a.Len(); i++ {
			a.SetFloat(i, float64((k+i)%200))
		}
		items[k] = ndimage.Item{Key: k, Image: a}
	}
	c, err := ndimage.NewCollection(items, opts...)
	if err != nil {
		t.Fatalf("NewCollection failed: %v", err)
	}
	return c
}
