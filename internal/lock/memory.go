package lock

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local Locker for single-instance deployments and
// tests. TTL is ignored: locks live until released.
type Memory struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewMemory() *Memory {
	return &Memory{held: make(map[string]bool)}
}

func (m *Memory) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.held[key] {
		return nil, ErrNotAcquired
	}
	m.held[key] = true

	var once sync.Once
	release := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, key)
			m.mu.Unlock()
		})
	}
	return release, nil
}

var _ Locker = (*Memory)(nil)
