// Package audit provides the compliance trail: structured events emitted from
// domain logic and fanned out to pluggable sinks (in-memory for tests, Kafka
// for deployments).
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action names every trail-worthy operation in the engine.
type Action string

const (
	ActionOracleAdded       Action = "oracle_added"
	ActionOracleDeactivated Action = "oracle_deactivated"
	ActionEntityRegistered  Action = "entity_registered"
	ActionReportSubmitted   Action = "report_submitted"
	ActionReportValidated   Action = "report_validated"
	ActionAuditRecorded     Action = "audit_recorded"
	ActionEscalationCreated Action = "escalation_created"
	ActionSystemPaused      Action = "system_paused"
	ActionSystemUnpaused    Action = "system_unpaused"
	ActionIntelGenerated    Action = "intel_report_generated"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Actor     string    `json:"actor"`
	EntityID  string    `json:"entity_id,omitempty"`
	Decision  string    `json:"decision,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	BlockTime uint64    `json:"block_time,omitempty"` // logical-clock value at emission
}

// Publisher emits trail events. Emission is fail-open for the operations
// trail: services log publish failures but do not fail the business call.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Store persists trail events for inspection.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
}

// stamp fills server-assigned fields.
func stamp(event Event) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return event
}
