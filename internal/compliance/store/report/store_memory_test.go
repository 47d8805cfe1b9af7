package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"vigil/internal/compliance/models"
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

func (s *MemoryStoreSuite) sample(reportID uint64) *models.Report {
	return &models.Report{
		ID:       reportID,
		EntityID: "entity-1",
		Oracle:   "oracle-1",
		Metrics:  []uint64{80, 90},
		Severity: "ROUTINE",
	}
}

func (s *MemoryStoreSuite) TestGetMissReturnsNil() {
	report, err := s.store.Get(s.ctx, "entity-1", 1)
	s.Require().NoError(err)
	s.Nil(report)
}

func (s *MemoryStoreSuite) TestInsertAndGet() {
	s.Require().NoError(s.store.Insert(s.ctx, s.sample(1)))

	report, err := s.store.Get(s.ctx, "entity-1", 1)
	s.Require().NoError(err)
	s.Require().NotNil(report)
	s.Equal([]uint64{80, 90}, report.Metrics)
}

func (s *MemoryStoreSuite) TestInsertDuplicate() {
	s.Require().NoError(s.store.Insert(s.ctx, s.sample(1)))

	err := s.store.Insert(s.ctx, s.sample(1))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAlreadyExists))
}

func (s *MemoryStoreSuite) TestMetricsAreCopied() {
	original := s.sample(1)
	s.Require().NoError(s.store.Insert(s.ctx, original))
	original.Metrics[0] = 0

	report, err := s.store.Get(s.ctx, "entity-1", 1)
	s.Require().NoError(err)
	s.Equal(uint64(80), report.Metrics[0], "stored metrics must not alias caller slices")
}

func (s *MemoryStoreSuite) TestUpdateValidatedFlag() {
	s.Require().NoError(s.store.Insert(s.ctx, s.sample(1)))

	report, err := s.store.Get(s.ctx, "entity-1", 1)
	s.Require().NoError(err)
	report.Validated = true
	s.Require().NoError(s.store.Update(s.ctx, report))

	stored, err := s.store.Get(s.ctx, "entity-1", 1)
	s.Require().NoError(err)
	s.True(stored.Validated)
}

func (s *MemoryStoreSuite) TestUpdateMissing() {
	err := s.store.Update(s.ctx, s.sample(9))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *MemoryStoreSuite) TestListByEntityPreservesInsertionOrder() {
	for _, reportID := range []uint64{3, 1, 2} {
		s.Require().NoError(s.store.Insert(s.ctx, s.sample(reportID)))
	}

	reports, err := s.store.ListByEntity(s.ctx, "entity-1")
	s.Require().NoError(err)
	s.Require().Len(reports, 3)
	s.Equal(uint64(3), reports[0].ID)
	s.Equal(uint64(1), reports[1].ID)
	s.Equal(uint64(2), reports[2].ID)
}

func (s *MemoryStoreSuite) TestListByEntityScopesToEntity() {
	s.Require().NoError(s.store.Insert(s.ctx, s.sample(1)))
	other := s.sample(1)
	other.EntityID = "entity-2"
	s.Require().NoError(s.store.Insert(s.ctx, other))

	reports, err := s.store.ListByEntity(s.ctx, "entity-2")
	s.Require().NoError(err)
	s.Len(reports, 1)
}
