package escalation

import (
	"context"
	"sync"

	"vigil/internal/compliance/models"
	id "vigil/pkg/domain"
	dErrors "vigil/pkg/domain-errors"
)

// InMemoryStore keeps escalations per entity in creation order.
type InMemoryStore struct {
	mu          sync.RWMutex
	escalations map[id.EntityID][]*models.Escalation
}

func New() *InMemoryStore {
	return &InMemoryStore{
		escalations: make(map[id.EntityID][]*models.Escalation),
	}
}

func (s *InMemoryStore) Insert(_ context.Context, e *models.Escalation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.escalations[e.EntityID] {
		if existing.ID == e.ID {
			return dErrors.Newf(dErrors.CodeAlreadyExists, "escalation %d already recorded for entity %s", e.ID, e.EntityID)
		}
	}
	cp := *e
	s.escalations[e.EntityID] = append(s.escalations[e.EntityID], &cp)
	return nil
}

func (s *InMemoryStore) ListByEntity(_ context.Context, entityID id.EntityID) ([]*models.Escalation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.escalations[entityID]
	out := make([]*models.Escalation, 0, len(rows))
	for _, e := range rows {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}
