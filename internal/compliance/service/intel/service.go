// Package intel compiles cohort-level intelligence reports from the entity
// registry: a risk profile, a risk prediction, and a regulatory-pattern
// placeholder, plus an overall confidence figure.
package intel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"vigil/internal/compliance/config"
	"vigil/internal/compliance/metrics"
	"vigil/internal/compliance/models"
	"vigil/internal/compliance/ports"
	"vigil/internal/compliance/service/risk"
	id "vigil/pkg/domain"
	dErrors "vigil/pkg/domain-errors"
	"vigil/pkg/platform/audit"
)

// Static regulatory-pattern output. This analytic is intentionally
// unimplemented: the compiler ships fixed recommendations and a constant
// framework-compliance value until the pattern engine exists.
const frameworkComplianceConstant uint64 = 85

var staticRecommendations = []string{
	"MAINTAIN_CURRENT_MONITORING",
	"SCHEDULE_PERIODIC_REVIEW",
}

type Service struct {
	oracles  ports.OracleStore
	entities ports.EntityStore
	clock    ports.Clock
	cfg      config.Config

	logger    *slog.Logger
	publisher ports.AuditPublisher
	metrics   *metrics.Metrics
	tracer    trace.Tracer
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

func New(oracles ports.OracleStore, entities ports.EntityStore, clock ports.Clock, cfg config.Config, opts ...Option) (*Service, error) {
	if oracles == nil || entities == nil {
		return nil, fmt.Errorf("oracle and entity stores are required")
	}
	if clock == nil {
		return nil, fmt.Errorf("clock is required")
	}

	svc := &Service{
		oracles:  oracles,
		entities: entities,
		clock:    clock,
		cfg:      cfg,
		tracer:   otel.Tracer("vigil/intel"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Generate compiles one intelligence report for the given cohort. Callable by
// any active oracle or admin. The cohort is read as one consistent snapshot;
// profile and prediction aggregate concurrently over that snapshot.
func (s *Service) Generate(ctx context.Context, actor models.Actor, entityIDs []id.EntityID, framework string) (*models.IntelligenceReport, error) {
	ctx, span := s.tracer.Start(ctx, "intel.Generate")
	defer span.End()
	start := time.Now()

	if err := s.requireReader(ctx, actor); err != nil {
		return nil, err
	}
	if len(entityIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidData, "cohort cannot be empty")
	}
	if len(entityIDs) > s.cfg.MaxPredictionCohort {
		return nil, dErrors.Newf(dErrors.CodeInvalidData, "cohort exceeds %d entities", s.cfg.MaxPredictionCohort)
	}

	entities, err := s.entities.GetBatch(ctx, entityIDs)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to snapshot cohort")
	}

	now := s.clock.Now()

	var (
		profile    models.RiskProfile
		prediction models.CohortPrediction
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile = risk.Profile(entities)
		return nil
	})
	g.Go(func() error {
		prediction = risk.Predict(entities, now, s.cfg.MaxAtRiskEntities)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to aggregate cohort")
	}

	report := &models.IntelligenceReport{
		Profile:    profile,
		Prediction: prediction,
		Patterns: models.RegulatoryPatterns{
			Framework:           framework,
			Recommendations:     staticRecommendations,
			FrameworkCompliance: frameworkComplianceConstant,
		},
		ConfidenceScore: risk.OverallConfidence(profile, prediction),
		GeneratedAt:     now,
	}

	if s.metrics != nil {
		s.metrics.IncIntelReports()
		s.metrics.ObserveIntelDuration(time.Since(start).Seconds())
	}
	ports.LogAudit(ctx, s.logger, s.publisher, audit.Event{
		Action:    audit.ActionIntelGenerated,
		Actor:     actor.ID.String(),
		Reason:    framework,
		BlockTime: now,
	},
		"cohort_size", len(entityIDs),
		"at_risk", len(prediction.AtRiskEntities),
	)
	return report, nil
}

func (s *Service) requireReader(ctx context.Context, actor models.Actor) error {
	if actor.Admin {
		return nil
	}
	oracle, err := s.oracles.Get(ctx, actor.ID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load oracle")
	}
	if oracle == nil || !oracle.Active {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not an active oracle")
	}
	return nil
}
