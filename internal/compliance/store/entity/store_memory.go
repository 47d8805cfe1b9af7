package entity

import (
	"context"
	"sync"

	"vigil/internal/compliance/models"
	id "vigil/pkg/domain"
	dErrors "vigil/pkg/domain-errors"
)

// InMemoryStore keeps entities in a map. GetBatch takes its snapshot under a
// single read lock so aggregators never mix pre/post-update states.
type InMemoryStore struct {
	mu       sync.RWMutex
	entities map[id.EntityID]*models.Entity
}

func New() *InMemoryStore {
	return &InMemoryStore{
		entities: make(map[id.EntityID]*models.Entity),
	}
}

func (s *InMemoryStore) Get(_ context.Context, entityID id.EntityID) (*models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, exists := s.entities[entityID]
	if !exists {
		return nil, nil
	}
	cp := *entity
	return &cp, nil
}

func (s *InMemoryStore) Insert(_ context.Context, entity *models.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entities[entity.ID]; exists {
		return dErrors.Newf(dErrors.CodeAlreadyExists, "entity %s already registered", entity.ID)
	}
	cp := *entity
	s.entities[entity.ID] = &cp
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, entity *models.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entities[entity.ID]; !exists {
		return dErrors.Newf(dErrors.CodeNotFound, "entity %s not found", entity.ID)
	}
	cp := *entity
	s.entities[entity.ID] = &cp
	return nil
}

func (s *InMemoryStore) GetBatch(_ context.Context, entityIDs []id.EntityID) ([]*models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Entity, 0, len(entityIDs))
	for _, entityID := range entityIDs {
		entity, exists := s.entities[entityID]
		if !exists {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "entity %s not found", entityID)
		}
		cp := *entity
		out = append(out, &cp)
	}
	return out, nil
}
