package oracle

import (
	"context"
	"sync"

	"vigil/internal/compliance/models"
	id "vigil/pkg/domain"
	dErrors "vigil/pkg/domain-errors"
)

// InMemoryStore keeps oracles in a map. Reads return copies so callers can
// mutate records freely before writing them back.
type InMemoryStore struct {
	mu      sync.RWMutex
	oracles map[id.OracleID]*models.Oracle
}

func New() *InMemoryStore {
	return &InMemoryStore{
		oracles: make(map[id.OracleID]*models.Oracle),
	}
}

func (s *InMemoryStore) Get(_ context.Context, oracleID id.OracleID) (*models.Oracle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	oracle, exists := s.oracles[oracleID]
	if !exists {
		return nil, nil
	}
	cp := *oracle
	return &cp, nil
}

func (s *InMemoryStore) Insert(_ context.Context, oracle *models.Oracle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.oracles[oracle.ID]; exists {
		return dErrors.Newf(dErrors.CodeAlreadyExists, "oracle %s already registered", oracle.ID)
	}
	cp := *oracle
	s.oracles[oracle.ID] = &cp
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, oracle *models.Oracle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.oracles[oracle.ID]; !exists {
		return dErrors.Newf(dErrors.CodeNotFound, "oracle %s not found", oracle.ID)
	}
	cp := *oracle
	s.oracles[oracle.ID] = &cp
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Oracle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Oracle, 0, len(s.oracles))
	for _, oracle := range s.oracles {
		cp := *oracle
		out = append(out, &cp)
	}
	return out, nil
}
