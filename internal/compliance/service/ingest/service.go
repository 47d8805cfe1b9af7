// Package ingest validates and scores incoming attestations, maintains the
// derived entity state, and materializes escalations on CRITICAL transitions.
//
// Mutating operations run under a single writer lock: every submission either
// applies completely or not at all, and two attestations for the same entity
// can never interleave their store writes.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"vigil/internal/compliance/config"
	"vigil/internal/compliance/metrics"
	"vigil/internal/compliance/models"
	"vigil/internal/compliance/ports"
	id "vigil/pkg/domain"
	dErrors "vigil/pkg/domain-errors"
	"vigil/pkg/platform/audit"
)

// EscalationTypeCritical labels escalations created on a CRITICAL submission.
const EscalationTypeCritical = "CRITICAL_COMPLIANCE_FAILURE"

// EscalationSeverityCritical is the fixed severity of those escalations.
const EscalationSeverityCritical uint64 = 10

// SubmitInput carries one attestation. Metrics must hold 1..MaxMetrics values
// in [0,100]; oversized or out-of-range input is rejected, never truncated.
type SubmitInput struct {
	EvidenceDigest models.Digest
	Metrics        []uint64
	Notes          string
	Severity       string
}

// AuditInput carries one independent audit finding set. Findings may be empty
// but never exceed MaxFindings values.
type AuditInput struct {
	AuditType       string
	Findings        []uint64
	Recommendations string
}

type Service struct {
	oracles     ports.OracleStore
	entities    ports.EntityStore
	reports     ports.ReportStore
	audits      ports.AuditLogStore
	escalations ports.EscalationStore
	counters    ports.CounterStore
	system      ports.SystemStore
	clock       ports.Clock
	cfg         config.Config

	logger    *slog.Logger
	publisher ports.AuditPublisher
	metrics   *metrics.Metrics
	tracer    trace.Tracer

	// mu serializes mutating operations across stores so per-call atomicity
	// holds even with concurrent external callers.
	mu sync.Mutex
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

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Stores bundles the persistence dependencies to keep the constructor
// signature manageable.
type Stores struct {
	Oracles     ports.OracleStore
	Entities    ports.EntityStore
	Reports     ports.ReportStore
	Audits      ports.AuditLogStore
	Escalations ports.EscalationStore
	Counters    ports.CounterStore
	System      ports.SystemStore
}

func New(stores Stores, clock ports.Clock, cfg config.Config, opts ...Option) (*Service, error) {
	if stores.Oracles == nil || stores.Entities == nil || stores.Reports == nil ||
		stores.Audits == nil || stores.Escalations == nil || stores.Counters == nil ||
		stores.System == nil {
		return nil, fmt.Errorf("all ingest stores are required")
	}
	if clock == nil {
		return nil, fmt.Errorf("clock is required")
	}

	svc := &Service{
		oracles:     stores.Oracles,
		entities:    stores.Entities,
		reports:     stores.Reports,
		audits:      stores.Audits,
		escalations: stores.Escalations,
		counters:    stores.Counters,
		system:      stores.System,
		clock:       clock,
		cfg:         cfg,
		tracer:      otel.Tracer("vigil/ingest"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Submit ingests one attestation and returns the new report id.
//
// Precondition order matches the operation contract: capability and pause
// first, entity existence second, input shape third. No state mutates until
// every check has passed.
func (s *Service) Submit(ctx context.Context, actor models.Actor, entityID id.EntityID, in SubmitInput) (uint64, error) {
	ctx, span := s.tracer.Start(ctx, "ingest.Submit")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	oracle, err := s.requireActiveOracle(ctx, actor)
	if err != nil {
		return 0, err
	}
	if err := s.requireUnpaused(ctx); err != nil {
		return 0, err
	}

	entity, err := s.entities.Get(ctx, entityID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load entity")
	}
	if entity == nil {
		return 0, dErrors.Newf(dErrors.CodeNotFound, "entity %s not found", entityID)
	}

	if err := s.validateMetrics(in.Metrics); err != nil {
		return 0, err
	}

	now := s.clock.Now()
	score := ComplianceScore(in.Metrics)
	status := DeriveStatus(score, s.cfg)

	reportID, err := s.counters.Next(ctx, ports.CounterReports)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate report id")
	}

	report := &models.Report{
		ID:             reportID,
		EntityID:       entityID,
		Oracle:         oracle.ID,
		Timestamp:      now,
		EvidenceDigest: in.EvidenceDigest,
		Metrics:        in.Metrics,
		Notes:          in.Notes,
		Severity:       in.Severity,
		Validated:      false,
	}
	if err := s.reports.Insert(ctx, report); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist report")
	}

	entity.ComplianceScore = score
	entity.Status = status
	entity.RiskCategory = DeriveRiskCategory(score, entity.Violations, s.cfg)
	entity.LastUpdated = now
	entity.NextAuditDue = now + s.cfg.AuditInterval

	if status == models.StatusCritical {
		// Every CRITICAL submission opens a fresh escalation; duplicates are
		// not suppressed.
		if err := s.createEscalation(ctx, actor, entityID, now); err != nil {
			return 0, err
		}
	}
	if status == models.StatusNonCompliant || status == models.StatusCritical {
		entity.Violations++
	}

	// RiskCategory reads the pre-increment violation count; the new violation
	// influences classification from the next submission on.
	if err := s.entities.Update(ctx, entity); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update entity")
	}

	// A submission is a positive reputation event for the reporting oracle.
	if err := oracle.ApplyReputation(true); err != nil {
		return 0, err
	}
	oracle.TotalReports++
	oracle.LastActivity = now
	if err := s.oracles.Update(ctx, oracle); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update oracle")
	}

	if s.metrics != nil {
		s.metrics.IncReportsSubmitted(status.String())
	}
	ports.LogAudit(ctx, s.logger, s.publisher, audit.Event{
		Action:    audit.ActionReportSubmitted,
		Actor:     actor.ID.String(),
		EntityID:  entityID.String(),
		Decision:  status.String(),
		Reason:    strconv.FormatUint(reportID, 10),
		BlockTime: now,
	},
		"entity_id", entityID,
		"report_id", reportID,
		"score", score,
		"status", status,
	)
	return reportID, nil
}

// ValidateReport marks a report validated or rejected and feeds the outcome
// back into the originating oracle's reputation. Admin only. The reputation
// adjustment is range-checked before anything persists, so an underflow
// aborts the whole operation.
func (s *Service) ValidateReport(ctx context.Context, actor models.Actor, entityID id.EntityID, reportID uint64, valid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !actor.Admin {
		return dErrors.New(dErrors.CodeUnauthorized, "validating reports requires admin capability")
	}

	report, err := s.reports.Get(ctx, entityID, reportID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load report")
	}
	if report == nil {
		return dErrors.Newf(dErrors.CodeInvalidData, "report %d not found for entity %s", reportID, entityID)
	}

	oracle, err := s.oracles.Get(ctx, report.Oracle)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load oracle")
	}
	if oracle == nil {
		return dErrors.Newf(dErrors.CodeInvalidOracle, "oracle %s not found", report.Oracle)
	}
	if err := oracle.ApplyReputation(valid); err != nil {
		return err
	}

	report.Validated = valid
	if err := s.reports.Update(ctx, report); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update report")
	}
	if err := s.oracles.Update(ctx, oracle); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update oracle")
	}

	if s.metrics != nil {
		s.metrics.IncReportsValidated(valid)
	}
	ports.LogAudit(ctx, s.logger, s.publisher, audit.Event{
		Action:   audit.ActionReportValidated,
		Actor:    actor.ID.String(),
		EntityID: entityID.String(),
		Decision: strconv.FormatBool(valid),
		Reason:   strconv.FormatUint(reportID, 10),
	},
		"entity_id", entityID,
		"report_id", reportID,
		"valid", valid,
	)
	return nil
}

// RecordAudit persists one immutable audit row and returns its id. The entity
// itself is not mutated. Follow-up is required when the findings sum exceeds
// 50.
func (s *Service) RecordAudit(ctx context.Context, actor models.Actor, entityID id.EntityID, in AuditInput) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireActiveOracle(ctx, actor); err != nil {
		return 0, err
	}

	entity, err := s.entities.Get(ctx, entityID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load entity")
	}
	if entity == nil {
		return 0, dErrors.Newf(dErrors.CodeNotFound, "entity %s not found", entityID)
	}

	if len(in.Findings) > s.cfg.MaxFindings {
		return 0, dErrors.Newf(dErrors.CodeInvalidData, "at most %d findings per audit", s.cfg.MaxFindings)
	}

	var sum uint64
	for _, f := range in.Findings {
		sum += f
	}

	auditID, err := s.counters.Next(ctx, ports.CounterAudits)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate audit id")
	}

	now := s.clock.Now()
	row := &models.Audit{
		ID:               auditID,
		EntityID:         entityID,
		Auditor:          actor.ID,
		AuditType:        in.AuditType,
		Findings:         in.Findings,
		Recommendations:  in.Recommendations,
		FollowUpRequired: sum > 50,
		Timestamp:        now,
	}
	if err := s.audits.Insert(ctx, row); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist audit")
	}

	if s.metrics != nil {
		s.metrics.IncAuditsRecorded()
	}
	ports.LogAudit(ctx, s.logger, s.publisher, audit.Event{
		Action:    audit.ActionAuditRecorded,
		Actor:     actor.ID.String(),
		EntityID:  entityID.String(),
		Reason:    in.AuditType,
		BlockTime: now,
	},
		"entity_id", entityID,
		"audit_id", auditID,
		"follow_up", row.FollowUpRequired,
	)
	return auditID, nil
}

// ListReports returns all attestations for one entity in submission order.
func (s *Service) ListReports(ctx context.Context, actor models.Actor, entityID id.EntityID) ([]*models.Report, error) {
	if err := s.requireReader(ctx, actor); err != nil {
		return nil, err
	}
	reports, err := s.reports.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reports")
	}
	return reports, nil
}

// ListAudits returns all audit rows for one entity.
func (s *Service) ListAudits(ctx context.Context, actor models.Actor, entityID id.EntityID) ([]*models.Audit, error) {
	if err := s.requireReader(ctx, actor); err != nil {
		return nil, err
	}
	audits, err := s.audits.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audits")
	}
	return audits, nil
}

// ListEscalations returns all escalations for one entity in creation order.
func (s *Service) ListEscalations(ctx context.Context, actor models.Actor, entityID id.EntityID) ([]*models.Escalation, error) {
	if err := s.requireReader(ctx, actor); err != nil {
		return nil, err
	}
	escalations, err := s.escalations.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list escalations")
	}
	return escalations, nil
}

func (s *Service) createEscalation(ctx context.Context, actor models.Actor, entityID id.EntityID, now uint64) error {
	escalationID, err := s.counters.Next(ctx, ports.CounterEscalations)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate escalation id")
	}

	escalation := &models.Escalation{
		ID:            escalationID,
		EntityID:      entityID,
		ViolationType: EscalationTypeCritical,
		Severity:      EscalationSeverityCritical,
		CreatedAt:     now,
		Status:        models.EscalationPending,
	}
	if err := s.escalations.Insert(ctx, escalation); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist escalation")
	}

	if s.metrics != nil {
		s.metrics.IncEscalationsCreated()
	}
	ports.LogAudit(ctx, s.logger, s.publisher, audit.Event{
		Action:    audit.ActionEscalationCreated,
		Actor:     actor.ID.String(),
		EntityID:  entityID.String(),
		Reason:    EscalationTypeCritical,
		BlockTime: now,
	},
		"entity_id", entityID,
		"escalation_id", escalationID,
	)
	return nil
}

func (s *Service) validateMetrics(metrics []uint64) error {
	if len(metrics) == 0 {
		return dErrors.New(dErrors.CodeInvalidData, "metrics sequence cannot be empty")
	}
	if len(metrics) > s.cfg.MaxMetrics {
		return dErrors.Newf(dErrors.CodeInvalidData, "at most %d metrics per report", s.cfg.MaxMetrics)
	}
	for _, m := range metrics {
		if m > 100 {
			return dErrors.New(dErrors.CodeInvalidData, "metric values must be within [0,100]")
		}
	}
	return nil
}

func (s *Service) requireActiveOracle(ctx context.Context, actor models.Actor) (*models.Oracle, error) {
	oracle, err := s.oracles.Get(ctx, actor.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load oracle")
	}
	if oracle == nil || !oracle.Active {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller is not an active oracle")
	}
	return oracle, nil
}

func (s *Service) requireUnpaused(ctx context.Context) error {
	status, err := s.system.Status(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read system status")
	}
	if status.Paused {
		return dErrors.New(dErrors.CodeUnauthorized, "system is paused")
	}
	return nil
}

func (s *Service) requireReader(ctx context.Context, actor models.Actor) error {
	if actor.Admin {
		return nil
	}
	if _, err := s.requireActiveOracle(ctx, actor); err != nil {
		return err
	}
	return nil
}
