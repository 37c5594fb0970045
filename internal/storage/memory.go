package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process ObjectStore used by tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	bucket  string
}

func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		bucket:  bucket,
	}
}

func (m *MemoryStore) List(ctx context.Context, prefix string) ([]Descriptor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Descriptor
	for name, data := range m.objects {
		if strings.HasPrefix(name, prefix) {
			out = append(out, Descriptor{Name: name, Size: int64(len(data))})
		}
	}
	// Map iteration order is random; discovery order must be stable.
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) Metadata(ctx context.Context, name string) (Descriptor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return Descriptor{Name: name, Size: int64(len(data))}, nil
}

func (m *MemoryStore) Get(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryStore) Put(ctx context.Context, name string, data []byte, pre *Precondition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pre != nil && pre.DoesNotExist {
		if _, exists := m.objects[name]; exists {
			return fmt.Errorf("%w: %s", ErrPreconditionFailed, name)
		}
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[name] = stored
	return nil
}

func (m *MemoryStore) PublicURL(name string) string {
	return fmt.Sprintf("https://storage.local/%s/%s", m.bucket, name)
}

func (m *MemoryStore) SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	expires := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("https://storage.local/%s/%s?expires=%d", m.bucket, name, expires), nil
}

// Len reports the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
