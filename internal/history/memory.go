package history

import (
	"context"
	"sync"
)

// Memory keeps the history in a slice.
type Memory struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

// NewMemory creates an in-memory store holding at most capacity entries.
func NewMemory(capacity int) *Memory {
	capacity = normalizeCapacity(capacity)
	return &Memory{entries: make([]Entry, 0, capacity), capacity: capacity}
}

func (m *Memory) AppendIfAbsent(_ context.Context, e Entry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.entries {
		if existing.VideoID == e.VideoID {
			return false, nil
		}
	}

	m.entries = append([]Entry{e}, m.entries...)
	if len(m.entries) > m.capacity {
		m.entries = m.entries[:m.capacity]
	}
	return true, nil
}

func (m *Memory) Recent(_ context.Context, n int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n = min(limitFor(n, m.capacity), len(m.entries))
	out := make([]Entry, n)
	copy(out, m.entries[:n])
	return out, nil
}

func (m *Memory) Close() error { return nil }
