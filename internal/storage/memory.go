package storage

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store, used for tests and for mem:// paths.
// Buffers are copied on Put and Get so callers cannot mutate stored content.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
	}
}

var (
	namedMu     sync.Mutex
	namedStores = map[string]*MemoryStore{}
)

// NamedMemoryStore returns the process-wide memory store for name, creating
// it on first use. mem://name/sub paths resolve to the store "name/sub".
func NamedMemoryStore(name string) *MemoryStore {
	namedMu.Lock()
	defer namedMu.Unlock()
	s, ok := namedStores[name]
	if !ok {
		s = NewMemoryStore()
		namedStores[name] = s
	}
	return s
}

func openMemory(_ context.Context, loc Location, _ *Credentials) (Store, error) {
	return NamedMemoryStore(path.Join(loc.Host, loc.Path)), nil
}

// Put stores a copy of data.
func (m *MemoryStore) Put(_ context.Context, name string, data []byte) error {
	copied := make([]byte, len(data))
	copy(copied, data)

	m.mu.Lock()
	m.blobs[name] = copied
	m.mu.Unlock()
	return nil
}

// Get returns a copy of the stored data.
func (m *MemoryStore) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

// Exists reports whether name has been stored.
func (m *MemoryStore) Exists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	_, ok := m.blobs[name]
	m.mu.RUnlock()
	return ok, nil
}

// List returns all stored names starting with prefix.
func (m *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name := range m.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a stored blob. Deleting a missing name is not an error.
func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	delete(m.blobs, name)
	m.mu.Unlock()
	return nil
}
