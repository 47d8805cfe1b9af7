// Package registry manages the oracle and entity registries plus the global
// pause switch. All operations are capability-checked against the injected
// Actor; the service never authenticates callers itself.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"vigil/internal/compliance/config"
	"vigil/internal/compliance/models"
	"vigil/internal/compliance/ports"
	id "vigil/pkg/domain"
	dErrors "vigil/pkg/domain-errors"
	"vigil/pkg/platform/audit"
)

type Service struct {
	oracles  ports.OracleStore
	entities ports.EntityStore
	system   ports.SystemStore
	clock    ports.Clock
	cfg      config.Config

	logger    *slog.Logger
	publisher ports.AuditPublisher
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func New(oracles ports.OracleStore, entities ports.EntityStore, system ports.SystemStore, clock ports.Clock, cfg config.Config, opts ...Option) (*Service, error) {
	if oracles == nil || entities == nil || system == nil {
		return nil, fmt.Errorf("oracle, entity, and system stores are required")
	}
	if clock == nil {
		return nil, fmt.Errorf("clock is required")
	}

	svc := &Service{
		oracles:  oracles,
		entities: entities,
		system:   system,
		clock:    clock,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// AddOracle registers a new authorized data provider. Admin only; capped at
// cfg.MaxOracles authorized slots.
func (s *Service) AddOracle(ctx context.Context, actor models.Actor, oracleID id.OracleID, initialReputation uint64) error {
	if !actor.Admin {
		return dErrors.New(dErrors.CodeUnauthorized, "adding oracles requires admin capability")
	}

	status, err := s.system.Status(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read system status")
	}
	if status.OracleCount >= s.cfg.MaxOracles {
		return dErrors.Newf(dErrors.CodeCapacityExceeded, "oracle capacity %d reached", s.cfg.MaxOracles)
	}

	existing, err := s.oracles.Get(ctx, oracleID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load oracle")
	}
	if existing != nil {
		return dErrors.Newf(dErrors.CodeAlreadyExists, "oracle %s already registered", oracleID)
	}

	now := s.clock.Now()
	oracle := &models.Oracle{
		ID:              oracleID,
		Active:          true,
		ReputationScore: initialReputation,
		TotalReports:    0,
		LastActivity:    now,
	}
	if err := s.oracles.Insert(ctx, oracle); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert oracle")
	}
	if err := s.system.IncrOracles(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to advance oracle count")
	}

	ports.LogAudit(ctx, s.logger, s.publisher, audit.Event{
		Action:    audit.ActionOracleAdded,
		Actor:     actor.ID.String(),
		BlockTime: now,
		Reason:    oracleID.String(),
	}, "oracle_id", oracleID)
	return nil
}

// DeactivateOracle flips an oracle inactive and releases its authorized slot.
// Re-deactivation is rejected so the slot count cannot drift.
func (s *Service) DeactivateOracle(ctx context.Context, actor models.Actor, oracleID id.OracleID) error {
	if !actor.Admin {
		return dErrors.New(dErrors.CodeUnauthorized, "deactivating oracles requires admin capability")
	}

	oracle, err := s.oracles.Get(ctx, oracleID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load oracle")
	}
	if oracle == nil {
		return dErrors.Newf(dErrors.CodeInvalidOracle, "oracle %s not found", oracleID)
	}
	if !oracle.Active {
		return dErrors.Newf(dErrors.CodeInvalidOracle, "oracle %s already inactive", oracleID)
	}

	oracle.Active = false
	if err := s.oracles.Update(ctx, oracle); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update oracle")
	}
	if err := s.system.DecrOracles(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to release oracle slot")
	}

	ports.LogAudit(ctx, s.logger, s.publisher, audit.Event{
		Action: audit.ActionOracleDeactivated,
		Actor:  actor.ID.String(),
		Reason: oracleID.String(),
	}, "oracle_id", oracleID)
	return nil
}

// IsAuthorized reports whether the identity is a registered, active oracle.
// Used as the capability gate by ingestion and audit operations.
func (s *Service) IsAuthorized(ctx context.Context, oracleID id.OracleID) (bool, error) {
	oracle, err := s.oracles.Get(ctx, oracleID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load oracle")
	}
	return oracle != nil && oracle.Active, nil
}

// RegisterEntity creates a tracked subject in its initial PENDING state.
// Admin only; rejected while the system is paused.
func (s *Service) RegisterEntity(ctx context.Context, actor models.Actor, entityID id.EntityID, name string) error {
	if !actor.Admin {
		return dErrors.New(dErrors.CodeUnauthorized, "registering entities requires admin capability")
	}

	status, err := s.system.Status(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read system status")
	}
	if status.Paused {
		return dErrors.New(dErrors.CodeUnauthorized, "system is paused")
	}

	existing, err := s.entities.Get(ctx, entityID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load entity")
	}
	if existing != nil {
		return dErrors.Newf(dErrors.CodeAlreadyExists, "entity %s already registered", entityID)
	}

	now := s.clock.Now()
	entity := &models.Entity{
		ID:              entityID,
		Name:            name,
		ComplianceScore: 0,
		LastUpdated:     now,
		Status:          models.StatusPending,
		Violations:      0,
		RiskCategory:    models.RiskUnknown,
		NextAuditDue:    now + s.cfg.AuditInterval,
		EscalationLevel: 0,
	}
	if err := s.entities.Insert(ctx, entity); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert entity")
	}
	if err := s.system.IncrEntities(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to advance entity count")
	}

	ports.LogAudit(ctx, s.logger, s.publisher, audit.Event{
		Action:    audit.ActionEntityRegistered,
		Actor:     actor.ID.String(),
		EntityID:  entityID.String(),
		BlockTime: now,
	}, "entity_id", entityID)
	return nil
}

// Pause blocks all mutating entity/report paths until Unpause.
func (s *Service) Pause(ctx context.Context, actor models.Actor) error {
	return s.setPaused(ctx, actor, true)
}

// Unpause re-enables mutating paths.
func (s *Service) Unpause(ctx context.Context, actor models.Actor) error {
	return s.setPaused(ctx, actor, false)
}

func (s *Service) setPaused(ctx context.Context, actor models.Actor, paused bool) error {
	if !actor.Admin {
		return dErrors.New(dErrors.CodeUnauthorized, "pausing requires admin capability")
	}
	if err := s.system.SetPaused(ctx, paused); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to set pause flag")
	}

	action := audit.ActionSystemPaused
	if !paused {
		action = audit.ActionSystemUnpaused
	}
	ports.LogAudit(ctx, s.logger, s.publisher, audit.Event{
		Action: action,
		Actor:  actor.ID.String(),
	})
	return nil
}

// GetEntity returns the current derived state for one entity. Requires an
// active oracle or admin caller.
func (s *Service) GetEntity(ctx context.Context, actor models.Actor, entityID id.EntityID) (*models.Entity, error) {
	if err := s.requireReader(ctx, actor); err != nil {
		return nil, err
	}
	entity, err := s.entities.Get(ctx, entityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load entity")
	}
	if entity == nil {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "entity %s not found", entityID)
	}
	return entity, nil
}

// ListOracles returns every registered oracle, active and inactive.
func (s *Service) ListOracles(ctx context.Context, actor models.Actor) ([]*models.Oracle, error) {
	if err := s.requireReader(ctx, actor); err != nil {
		return nil, err
	}
	oracles, err := s.oracles.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list oracles")
	}
	return oracles, nil
}

// SystemStatus returns the pause flag and census counters. Admin only.
func (s *Service) SystemStatus(ctx context.Context, actor models.Actor) (models.SystemStatus, error) {
	if !actor.Admin {
		return models.SystemStatus{}, dErrors.New(dErrors.CodeUnauthorized, "system status requires admin capability")
	}
	status, err := s.system.Status(ctx)
	if err != nil {
		return models.SystemStatus{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read system status")
	}
	return status, nil
}

func (s *Service) requireReader(ctx context.Context, actor models.Actor) error {
	if actor.Admin {
		return nil
	}
	authorized, err := s.IsAuthorized(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !authorized {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not an active oracle")
	}
	return nil
}
