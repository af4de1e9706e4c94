package session

import (
	"context"
	"sync"
	"time"
)

type cursor struct {
	page    int
	touched time.Time
}

// MemoryStore is a process-local Store. Cursors idle for longer than the TTL start over.
type MemoryStore struct {
	mu      sync.Mutex
	cursors map[string]cursor
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore. A zero ttl keeps cursors forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cursors: make(map[string]cursor),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Next advances the cursor for key.
func (m *MemoryStore) Next(_ context.Context, key string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	c, ok := m.cursors[key]
	if !ok || m.expired(c, now) {
		c = cursor{}
	}
	c.page++
	c.touched = now
	m.cursors[key] = c
	return c.page, nil
}

// Reset forgets the cursor for key.
func (m *MemoryStore) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.cursors, key)
	m.mu.Unlock()
	return nil
}

// Sweep drops expired cursors and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, c := range m.cursors {
		if m.expired(c, now) {
			delete(m.cursors, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live cursors.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cursors)
}

func (m *MemoryStore) expired(c cursor, now time.Time) bool {
	return m.ttl > 0 && now.Sub(c.touched) > m.ttl
}
