package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"vigil/internal/compliance/config"
	"vigil/internal/compliance/models"
	entitystore "vigil/internal/compliance/store/entity"
	oraclestore "vigil/internal/compliance/store/oracle"
	systemstore "vigil/internal/compliance/store/system"
	"vigil/internal/platform/clock"
	id "vigil/pkg/domain"
	dErrors "vigil/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctx context.Context

	oracles  *oraclestore.InMemoryStore
	entities *entitystore.InMemoryStore
	system   *systemstore.InMemoryStore

	svc *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.oracles = oraclestore.New()
	s.entities = entitystore.New()
	s.system = systemstore.New()

	svc, err := New(s.oracles, s.entities, s.system, clock.NewLogical(0), config.Default())
	s.Require().NoError(err)
	s.svc = svc
}

func (s *ServiceSuite) admin() models.Actor {
	return models.Actor{ID: "admin", Admin: true}
}

func (s *ServiceSuite) TestAddOracle() {
	s.Run("requires admin", func() {
		err := s.svc.AddOracle(s.ctx, models.Actor{ID: "oracle-1"}, "oracle-1", 10)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("registers active with initial reputation", func() {
		s.Require().NoError(s.svc.AddOracle(s.ctx, s.admin(), "oracle-1", 10))

		oracle, err := s.oracles.Get(s.ctx, "oracle-1")
		s.Require().NoError(err)
		s.Require().NotNil(oracle)
		s.True(oracle.Active)
		s.Equal(uint64(10), oracle.ReputationScore)
		s.Zero(oracle.TotalReports)

		status, err := s.system.Status(s.ctx)
		s.Require().NoError(err)
		s.Equal(uint64(1), status.OracleCount)
	})

	s.Run("rejects duplicates", func() {
		err := s.svc.AddOracle(s.ctx, s.admin(), "oracle-1", 10)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyExists))
	})
}

func (s *ServiceSuite) TestOracleCapacity() {
	for i := 0; i < 10; i++ {
		oracleID := id.OracleID(fmt.Sprintf("oracle-%d", i))
		s.Require().NoError(s.svc.AddOracle(s.ctx, s.admin(), oracleID, 0))
	}

	err := s.svc.AddOracle(s.ctx, s.admin(), "oracle-overflow", 0)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeCapacityExceeded))

	// Deactivation releases the slot.
	s.Require().NoError(s.svc.DeactivateOracle(s.ctx, s.admin(), "oracle-0"))
	s.NoError(s.svc.AddOracle(s.ctx, s.admin(), "oracle-overflow", 0))
}

func (s *ServiceSuite) TestDeactivateOracle() {
	s.Require().NoError(s.svc.AddOracle(s.ctx, s.admin(), "oracle-1", 10))

	s.Run("requires admin", func() {
		err := s.svc.DeactivateOracle(s.ctx, models.Actor{ID: "oracle-1"}, "oracle-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("flips inactive and releases the slot", func() {
		s.Require().NoError(s.svc.DeactivateOracle(s.ctx, s.admin(), "oracle-1"))

		oracle, err := s.oracles.Get(s.ctx, "oracle-1")
		s.Require().NoError(err)
		s.False(oracle.Active)

		status, err := s.system.Status(s.ctx)
		s.Require().NoError(err)
		s.Zero(status.OracleCount)
	})

	s.Run("re-deactivation is rejected so the count cannot drift", func() {
		err := s.svc.DeactivateOracle(s.ctx, s.admin(), "oracle-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidOracle))

		status, err := s.system.Status(s.ctx)
		s.Require().NoError(err)
		s.Zero(status.OracleCount)
	})

	s.Run("unknown oracle", func() {
		err := s.svc.DeactivateOracle(s.ctx, s.admin(), "ghost")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidOracle))
	})
}

func (s *ServiceSuite) TestIsAuthorized() {
	s.Require().NoError(s.svc.AddOracle(s.ctx, s.admin(), "oracle-1", 10))

	authorized, err := s.svc.IsAuthorized(s.ctx, "oracle-1")
	s.Require().NoError(err)
	s.True(authorized)

	authorized, err = s.svc.IsAuthorized(s.ctx, "ghost")
	s.Require().NoError(err)
	s.False(authorized)

	s.Require().NoError(s.svc.DeactivateOracle(s.ctx, s.admin(), "oracle-1"))
	authorized, err = s.svc.IsAuthorized(s.ctx, "oracle-1")
	s.Require().NoError(err)
	s.False(authorized, "deactivated oracles lose authorization")
}

func (s *ServiceSuite) TestRegisterEntity() {
	s.Run("requires admin", func() {
		err := s.svc.RegisterEntity(s.ctx, models.Actor{ID: "oracle-1"}, "entity-1", "Acme")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("creates the initial pending state", func() {
		s.Require().NoError(s.svc.RegisterEntity(s.ctx, s.admin(), "entity-1", "Acme"))

		entity, err := s.entities.Get(s.ctx, "entity-1")
		s.Require().NoError(err)
		s.Require().NotNil(entity)
		s.Equal("Acme", entity.Name)
		s.Equal(models.StatusPending, entity.Status)
		s.Equal(models.RiskUnknown, entity.RiskCategory)
		s.Zero(entity.ComplianceScore)
		s.Zero(entity.Violations)
		s.Equal(entity.LastUpdated+1440, entity.NextAuditDue)

		status, err := s.system.Status(s.ctx)
		s.Require().NoError(err)
		s.Equal(uint64(1), status.TotalEntities)
	})

	s.Run("rejects duplicates", func() {
		err := s.svc.RegisterEntity(s.ctx, s.admin(), "entity-1", "Acme Again")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyExists))
	})

	s.Run("rejected while paused", func() {
		s.Require().NoError(s.svc.Pause(s.ctx, s.admin()))
		defer func() { s.Require().NoError(s.svc.Unpause(s.ctx, s.admin())) }()

		err := s.svc.RegisterEntity(s.ctx, s.admin(), "entity-2", "Beta")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *ServiceSuite) TestPauseLifecycle() {
	s.Run("requires admin", func() {
		err := s.svc.Pause(s.ctx, models.Actor{ID: "oracle-1"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("round trip", func() {
		s.Require().NoError(s.svc.Pause(s.ctx, s.admin()))
		status, err := s.svc.SystemStatus(s.ctx, s.admin())
		s.Require().NoError(err)
		s.True(status.Paused)

		s.Require().NoError(s.svc.Unpause(s.ctx, s.admin()))
		status, err = s.svc.SystemStatus(s.ctx, s.admin())
		s.Require().NoError(err)
		s.False(status.Paused)
	})
}

func (s *ServiceSuite) TestSystemStatusRequiresAdmin() {
	_, err := s.svc.SystemStatus(s.ctx, models.Actor{ID: "oracle-1"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestGetEntity() {
	s.Require().NoError(s.svc.AddOracle(s.ctx, s.admin(), "oracle-1", 10))
	s.Require().NoError(s.svc.RegisterEntity(s.ctx, s.admin(), "entity-1", "Acme"))

	s.Run("oracle caller allowed", func() {
		entity, err := s.svc.GetEntity(s.ctx, models.Actor{ID: "oracle-1"}, "entity-1")
		s.Require().NoError(err)
		s.Equal("Acme", entity.Name)
	})

	s.Run("unknown caller rejected", func() {
		_, err := s.svc.GetEntity(s.ctx, models.Actor{ID: "stranger"}, "entity-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("unknown entity", func() {
		_, err := s.svc.GetEntity(s.ctx, s.admin(), "ghost")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestListOracles() {
	s.Require().NoError(s.svc.AddOracle(s.ctx, s.admin(), "oracle-1", 10))
	s.Require().NoError(s.svc.AddOracle(s.ctx, s.admin(), "oracle-2", 20))
	s.Require().NoError(s.svc.DeactivateOracle(s.ctx, s.admin(), "oracle-2"))

	oracles, err := s.svc.ListOracles(s.ctx, s.admin())
	s.Require().NoError(err)
	s.Len(oracles, 2, "inactive oracles stay listed")
}
