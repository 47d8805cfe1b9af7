// Package ports defines shared interfaces for the compliance module.
// Interfaces are placed here when consumed by multiple services to avoid
// duplication.
package ports

import (
	"context"
	"log/slog"

	"vigil/internal/compliance/models"
	id "vigil/pkg/domain"
	"vigil/pkg/platform/audit"
)

// Counter names used with CounterStore. Ids are global, monotonically
// advancing, and never reused.
const (
	CounterReports     = "reports"
	CounterAudits      = "audits"
	CounterEscalations = "escalations"
)

// Clock supplies the logical clock (block counter) injected by the host
// environment. Implementations must be monotonically non-decreasing; the core
// never reads wall-clock time.
type Clock interface {
	Now() uint64
}

// OracleStore manages authorized data providers.
type OracleStore interface {
	// Get returns the oracle or nil when absent.
	Get(ctx context.Context, oracleID id.OracleID) (*models.Oracle, error)

	// Insert adds a new oracle; fails with CodeAlreadyExists on duplicates.
	Insert(ctx context.Context, oracle *models.Oracle) error

	// Update replaces an existing oracle; fails with CodeNotFound when absent.
	Update(ctx context.Context, oracle *models.Oracle) error

	// List returns all oracles, active and inactive.
	List(ctx context.Context) ([]*models.Oracle, error)
}

// EntityStore manages tracked compliance subjects.
type EntityStore interface {
	Get(ctx context.Context, entityID id.EntityID) (*models.Entity, error)
	Insert(ctx context.Context, entity *models.Entity) error
	Update(ctx context.Context, entity *models.Entity) error

	// GetBatch returns the requested entities as one consistent snapshot;
	// fails with CodeNotFound when any id is absent.
	GetBatch(ctx context.Context, entityIDs []id.EntityID) ([]*models.Entity, error)
}

// ReportStore persists oracle attestations.
type ReportStore interface {
	Insert(ctx context.Context, report *models.Report) error

	// Get returns the report or nil when absent.
	Get(ctx context.Context, entityID id.EntityID, reportID uint64) (*models.Report, error)

	// Update replaces an existing report; only the Validated flag ever changes.
	Update(ctx context.Context, report *models.Report) error

	ListByEntity(ctx context.Context, entityID id.EntityID) ([]*models.Report, error)
}

// AuditLogStore persists independent audit findings.
type AuditLogStore interface {
	Insert(ctx context.Context, a *models.Audit) error
	ListByEntity(ctx context.Context, entityID id.EntityID) ([]*models.Audit, error)
}

// EscalationStore persists remediation workflow items.
type EscalationStore interface {
	Insert(ctx context.Context, e *models.Escalation) error
	ListByEntity(ctx context.Context, entityID id.EntityID) ([]*models.Escalation, error)
}

// CounterStore allocates global ids. Next must be an atomic read-modify-write
// so concurrent submissions never observe duplicate ids.
type CounterStore interface {
	Next(ctx context.Context, name string) (uint64, error)
}

// SystemStore holds the pause flag and the global census counters.
type SystemStore interface {
	Status(ctx context.Context) (models.SystemStatus, error)
	SetPaused(ctx context.Context, paused bool) error
	IncrEntities(ctx context.Context) error
	IncrOracles(ctx context.Context) error

	// DecrOracles decrements unconditionally; services must guard against
	// double-deactivation or the count drifts.
	DecrOracles(ctx context.Context) error
}

// AuditPublisher emits compliance-trail events for state-changing operations.
type AuditPublisher = audit.Publisher

// LogAudit logs an action and emits it to the trail when a publisher is
// configured. Trail emission is fail-open: failures are logged, never
// propagated.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.Event, args ...any) {
	if logger != nil {
		logger.InfoContext(ctx, string(event.Action), args...)
	}
	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.ErrorContext(ctx, "trail emit failed",
			"action", event.Action,
			"error", err,
		)
	}
}
