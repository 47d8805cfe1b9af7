package auditlog

import (
	"context"
	"sync"

	"vigil/internal/compliance/models"
	id "vigil/pkg/domain"
	dErrors "vigil/pkg/domain-errors"
)

// InMemoryStore keeps audit rows per entity. Rows are immutable once written,
// so there is no update path.
type InMemoryStore struct {
	mu     sync.RWMutex
	audits map[id.EntityID][]*models.Audit
}

func New() *InMemoryStore {
	return &InMemoryStore{
		audits: make(map[id.EntityID][]*models.Audit),
	}
}

func (s *InMemoryStore) Insert(_ context.Context, a *models.Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.audits[a.EntityID] {
		if existing.ID == a.ID {
			return dErrors.Newf(dErrors.CodeAlreadyExists, "audit %d already recorded for entity %s", a.ID, a.EntityID)
		}
	}
	s.audits[a.EntityID] = append(s.audits[a.EntityID], copyAudit(a))
	return nil
}

func (s *InMemoryStore) ListByEntity(_ context.Context, entityID id.EntityID) ([]*models.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.audits[entityID]
	out := make([]*models.Audit, 0, len(rows))
	for _, a := range rows {
		out = append(out, copyAudit(a))
	}
	return out, nil
}

func copyAudit(a *models.Audit) *models.Audit {
	cp := *a
	cp.Findings = make([]uint64, len(a.Findings))
	copy(cp.Findings, a.Findings)
	return &cp
}
