package cache

import (
	"context"
	"sync"

	"github.com/ytget/ytmdl/internal/model"
)

// MemoryCache is the ephemeral store variant. It keeps every record in
// process memory and forgets everything on exit, which is what single-run
// downloads and tests want.
type MemoryCache struct {
	mu     sync.Mutex
	items  map[string]model.Outcome
	closed bool
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]model.Outcome)}
}

// FilterUncached returns the subset of ids not yet recorded.
func (m *MemoryCache) FilterUncached(_ context.Context, ids []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	uncached := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := m.items[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		uncached = append(uncached, id)
	}
	return uncached, nil
}

// AddItems records ids as downloaded. First recorded outcome wins.
func (m *MemoryCache) AddItems(_ context.Context, ids []string) error {
	return m.add(ids, model.OutcomeDownloaded)
}

// AddDiscardedItems records ids as discarded. First recorded outcome wins.
func (m *MemoryCache) AddDiscardedItems(_ context.Context, ids []string) error {
	return m.add(ids, model.OutcomeDiscarded)
}

func (m *MemoryCache) add(ids []string, outcome model.Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	for _, id := range ids {
		if _, ok := m.items[id]; ok {
			continue
		}
		m.items[id] = outcome
	}
	return nil
}

// Commit is a no-op; memory writes are immediate.
func (m *MemoryCache) Commit(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

// Close marks the cache closed.
func (m *MemoryCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
