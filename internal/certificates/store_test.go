package certificates

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"certificate-generator/certificate-api/pkg/storage"
)

// memStore is an in-memory storage.Store for tests
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Save(_ context.Context, name string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.objects[name]; ok {
		return storage.ErrExists
	}
	m.objects[name] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) Open(_ context.Context, name string) (*storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", storage.ErrNotFound, name)
	}
	return &storage.Object{
		ObjectInfo:  storage.ObjectInfo{Name: name, Size: int64(len(data)), ModTime: time.Now()},
		ContentType: "application/pdf",
		Body:        io.NopCloser(bytes.NewReader(data)),
	}, nil
}

func (m *memStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, name)
	return nil
}

func (m *memStore) List(_ context.Context) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]storage.ObjectInfo, 0, len(m.objects))
	for name, data := range m.objects {
		out = append(out, storage.ObjectInfo{Name: name, Size: int64(len(data))})
	}
	return out, nil
}

func (m *memStore) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for name := range m.objects {
		out = append(out, name)
	}
	return out
}

func (m *memStore) get(name string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[name]
}

// sequence returns an id generator that yields ids in order and then repeats
// the last one
func sequence(ids ...string) func() string {
	var (
		mu sync.Mutex
		i  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[min(i, len(ids)-1)]
		i++
		return id
	}
}

var fixedTime = time.Date(2025, time.March, 5, 10, 30, 0, 0, time.UTC)

func newTestRenderer(store storage.Store) *Renderer {
	r := NewRenderer(NewRegistry(nil), store, RendererConfig{
		PageSize:            "A4",
		Compress:            false,
		Author:              "Test",
		DefaultOrganization: "Akshar Paul NGO Pune",
	}, nil)
	r.now = func() time.Time { return fixedTime }
	return r
}
