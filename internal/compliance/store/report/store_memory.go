package report

import (
	"context"
	"sync"

	"vigil/internal/compliance/models"
	id "vigil/pkg/domain"
	dErrors "vigil/pkg/domain-errors"
)

type key struct {
	entity id.EntityID
	report uint64
}

// InMemoryStore keeps reports keyed by (entity, report id).
type InMemoryStore struct {
	mu      sync.RWMutex
	reports map[key]*models.Report
	// order preserves insertion order per entity for listing.
	order map[id.EntityID][]uint64
}

func New() *InMemoryStore {
	return &InMemoryStore{
		reports: make(map[key]*models.Report),
		order:   make(map[id.EntityID][]uint64),
	}
}

func (s *InMemoryStore) Insert(_ context.Context, r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{entity: r.EntityID, report: r.ID}
	if _, exists := s.reports[k]; exists {
		return dErrors.Newf(dErrors.CodeAlreadyExists, "report %d already recorded for entity %s", r.ID, r.EntityID)
	}
	s.reports[k] = copyReport(r)
	s.order[r.EntityID] = append(s.order[r.EntityID], r.ID)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, entityID id.EntityID, reportID uint64) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.reports[key{entity: entityID, report: reportID}]
	if !exists {
		return nil, nil
	}
	return copyReport(r), nil
}

func (s *InMemoryStore) Update(_ context.Context, r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{entity: r.EntityID, report: r.ID}
	if _, exists := s.reports[k]; !exists {
		return dErrors.Newf(dErrors.CodeNotFound, "report %d not found for entity %s", r.ID, r.EntityID)
	}
	s.reports[k] = copyReport(r)
	return nil
}

func (s *InMemoryStore) ListByEntity(_ context.Context, entityID id.EntityID) ([]*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.order[entityID]
	out := make([]*models.Report, 0, len(ids))
	for _, reportID := range ids {
		out = append(out, copyReport(s.reports[key{entity: entityID, report: reportID}]))
	}
	return out, nil
}

func copyReport(r *models.Report) *models.Report {
	cp := *r
	cp.Metrics = make([]uint64, len(r.Metrics))
	copy(cp.Metrics, r.Metrics)
	return &cp
}
