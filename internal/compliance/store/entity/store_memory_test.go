package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"vigil/internal/compliance/models"
	id "vigil/pkg/domain"
	dErrors "vigil/pkg/domain-errors"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = New()
}

func (s *MemoryStoreSuite) sample() *models.Entity {
	return &models.Entity{
		ID:           "entity-1",
		Name:         "Acme Corp",
		Status:       models.StatusPending,
		RiskCategory: models.RiskUnknown,
	}
}

func (s *MemoryStoreSuite) TestGetMissReturnsNil() {
	entity, err := s.store.Get(s.ctx, "ghost")
	s.Require().NoError(err)
	s.Nil(entity)
}

func (s *MemoryStoreSuite) TestInsertAndGet() {
	s.Require().NoError(s.store.Insert(s.ctx, s.sample()))

	entity, err := s.store.Get(s.ctx, "entity-1")
	s.Require().NoError(err)
	s.Require().NotNil(entity)
	s.Equal("Acme Corp", entity.Name)
}

func (s *MemoryStoreSuite) TestInsertDuplicate() {
	s.Require().NoError(s.store.Insert(s.ctx, s.sample()))

	err := s.store.Insert(s.ctx, s.sample())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAlreadyExists))
}

func (s *MemoryStoreSuite) TestGetReturnsCopy() {
	s.Require().NoError(s.store.Insert(s.ctx, s.sample()))

	entity, err := s.store.Get(s.ctx, "entity-1")
	s.Require().NoError(err)
	entity.Violations = 99

	again, err := s.store.Get(s.ctx, "entity-1")
	s.Require().NoError(err)
	s.Zero(again.Violations, "mutating a returned entity must not affect the store")
}

func (s *MemoryStoreSuite) TestUpdate() {
	s.Require().NoError(s.store.Insert(s.ctx, s.sample()))

	entity, err := s.store.Get(s.ctx, "entity-1")
	s.Require().NoError(err)
	entity.ComplianceScore = 85
	entity.Status = models.StatusCompliant
	s.Require().NoError(s.store.Update(s.ctx, entity))

	stored, err := s.store.Get(s.ctx, "entity-1")
	s.Require().NoError(err)
	s.Equal(uint64(85), stored.ComplianceScore)
	s.Equal(models.StatusCompliant, stored.Status)
}

func (s *MemoryStoreSuite) TestUpdateMissing() {
	err := s.store.Update(s.ctx, s.sample())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *MemoryStoreSuite) TestGetBatch() {
	for _, entityID := range []id.EntityID{"a", "b", "c"} {
		s.Require().NoError(s.store.Insert(s.ctx, &models.Entity{ID: entityID}))
	}

	s.Run("preserves request order", func() {
		entities, err := s.store.GetBatch(s.ctx, []id.EntityID{"c", "a"})
		s.Require().NoError(err)
		s.Require().Len(entities, 2)
		s.Equal(id.EntityID("c"), entities[0].ID)
		s.Equal(id.EntityID("a"), entities[1].ID)
	})

	s.Run("missing member fails the whole batch", func() {
		_, err := s.store.GetBatch(s.ctx, []id.EntityID{"a", "ghost"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
