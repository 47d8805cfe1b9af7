package system

import (
	"context"
	"sync"

	"vigil/internal/compliance/models"
)

// InMemoryStore holds the pause flag and global census counters. Initialized
// once at system start; counters only move through the Incr/Decr methods.
type InMemoryStore struct {
	mu            sync.RWMutex
	paused        bool
	totalEntities uint64
	oracleCount   uint64
}

func New() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Status(_ context.Context) (models.SystemStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.SystemStatus{
		Paused:        s.paused,
		TotalEntities: s.totalEntities,
		OracleCount:   s.oracleCount,
	}, nil
}

func (s *InMemoryStore) SetPaused(_ context.Context, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
	return nil
}

func (s *InMemoryStore) IncrEntities(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalEntities++
	return nil
}

func (s *InMemoryStore) IncrOracles(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oracleCount++
	return nil
}

// DecrOracles decrements without a zero guard. The registry rejects
// double-deactivation, so the count cannot underflow in practice.
func (s *InMemoryStore) DecrOracles(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oracleCount--
	return nil
}
