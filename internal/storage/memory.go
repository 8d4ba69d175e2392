package storage

import (
	"context"
	"sync"
)

// MemoryBackend is process-local storage shared by any number of Memory
// handles. Each handle behaves like a browser tab: it is notified of writes
// made through other handles, never of its own.
type MemoryBackend struct {
	mu       sync.Mutex
	data     map[string][]byte
	watchers map[string][]*memoryWatcher
}

type memoryWatcher struct {
	owner *Memory
	ch    chan Change
}

// NewMemoryBackend creates an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data:     make(map[string][]byte),
		watchers: make(map[string][]*memoryWatcher),
	}
}

// Open returns a new handle on the backend.
func (b *MemoryBackend) Open() *Memory {
	return &Memory{backend: b}
}

// Memory is a handle on a MemoryBackend.
type Memory struct {
	backend *MemoryBackend
}

// NewMemory returns a handle on a fresh private backend.
func NewMemory() *Memory {
	return NewMemoryBackend().Open()
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	b := m.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	v := append([]byte(nil), value...)
	b := m.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[key] = v
	m.notifyLocked(key, v)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	b := m.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.data[key]; !ok {
		return nil
	}
	delete(b.data, key)
	m.notifyLocked(key, nil)
	return nil
}

// notifyLocked fans a change out to watchers owned by other handles.
// Non-blocking: a full watcher loses its oldest queued change.
func (m *Memory) notifyLocked(key string, value []byte) {
	for _, w := range m.backend.watchers[key] {
		if w.owner == m {
			continue
		}
		deliver(w.ch, Change{Key: key, Value: value})
	}
}

func (m *Memory) Watch(ctx context.Context, key string) (<-chan Change, error) {
	w := &memoryWatcher{owner: m, ch: make(chan Change, watchBuffer)}

	b := m.backend
	b.mu.Lock()
	b.watchers[key] = append(b.watchers[key], w)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.watchers[key]
		for i, other := range list {
			if other == w {
				b.watchers[key] = append(list[:i], list[i+1:]...)
				break
			}
		}
		close(w.ch)
	}()
	return w.ch, nil
}

func (m *Memory) Close() error { return nil }
