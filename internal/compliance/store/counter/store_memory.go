package counter

import (
	"context"
	"sync"
)

// InMemoryStore allocates ids from named counters. Next is an atomic
// read-modify-write under the store lock; the first allocation returns 1.
type InMemoryStore struct {
	mu       sync.Mutex
	counters map[string]uint64
}

func New() *InMemoryStore {
	return &InMemoryStore{
		counters: make(map[string]uint64),
	}
}

func (s *InMemoryStore) Next(_ context.Context, name string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[name]++
	return s.counters[name], nil
}

// Peek returns the last allocated id without advancing, for status reads.
func (s *InMemoryStore) Peek(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[name]
}
