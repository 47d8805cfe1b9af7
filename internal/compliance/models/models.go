package models

import (
	"encoding/hex"

	id "vigil/pkg/domain"
	dErrors "vigil/pkg/domain-errors"
)

// Reputation adjustment applied on positive and negative signals. The penalty
// subtraction is range-checked: an oracle below the penalty fails the whole
// operation instead of clamping at zero.
const (
	ReputationReward  uint64 = 5
	ReputationPenalty uint64 = 2
)

// ComplianceStatus is the derived standing of a tracked entity.
type ComplianceStatus string

const (
	StatusPending      ComplianceStatus = "PENDING"
	StatusCompliant    ComplianceStatus = "COMPLIANT"
	StatusNonCompliant ComplianceStatus = "NON_COMPLIANT"
	StatusCritical     ComplianceStatus = "CRITICAL"
)

// IsValid checks if the status is one of the supported enum values.
func (s ComplianceStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompliant, StatusNonCompliant, StatusCritical:
		return true
	}
	return false
}

func (s ComplianceStatus) String() string { return string(s) }

// RiskCategory is the coarse risk classification derived from score and
// violation count.
type RiskCategory string

const (
	RiskUnknown RiskCategory = "UNKNOWN"
	RiskLow     RiskCategory = "LOW"
	RiskMedium  RiskCategory = "MEDIUM"
	RiskHigh    RiskCategory = "HIGH"
)

// IsValid checks if the risk category is one of the supported enum values.
func (r RiskCategory) IsValid() bool {
	switch r {
	case RiskUnknown, RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

func (r RiskCategory) String() string { return string(r) }

// EscalationStatus tracks a remediation workflow item. ASSIGNED and RESOLVED
// are declared for the resolution workflow; no operation drives an escalation
// past PENDING yet.
type EscalationStatus string

const (
	EscalationPending  EscalationStatus = "PENDING"
	EscalationAssigned EscalationStatus = "ASSIGNED"
	EscalationResolved EscalationStatus = "RESOLVED"
)

func (s EscalationStatus) String() string { return string(s) }

// Trend labels the direction of a cohort's compliance scores.
type Trend string

const (
	TrendImproving Trend = "IMPROVING"
	TrendDeclining Trend = "DECLINING"
	TrendStable    Trend = "STABLE"
)

// Actor is the caller identity injected by the transport layer. The engine
// never authenticates callers itself; it only applies capability predicates.
type Actor struct {
	ID    id.OracleID
	Admin bool
}

// Oracle is an authorized external data provider. Oracles are deactivated,
// never deleted.
type Oracle struct {
	ID              id.OracleID
	Active          bool
	ReputationScore uint64
	TotalReports    uint64
	LastActivity    uint64 // logical-clock value
}

// ApplyReputation adjusts the reputation score for a positive or negative
// signal. Negative adjustments that would underflow abort with
// CodeArithmeticRange; the caller must not persist any state on error.
func (o *Oracle) ApplyReputation(positive bool) error {
	if positive {
		o.ReputationScore += ReputationReward
		return nil
	}
	if o.ReputationScore < ReputationPenalty {
		return dErrors.Newf(dErrors.CodeArithmeticRange,
			"reputation underflow for oracle %s", o.ID)
	}
	o.ReputationScore -= ReputationPenalty
	return nil
}

// Entity is a tracked compliance subject. Created once by registration,
// mutated only by report ingestion, never deleted.
type Entity struct {
	ID              id.EntityID
	Name            string
	ComplianceScore uint64 // 0-100, derived from the latest report
	LastUpdated     uint64 // logical-clock value
	Status          ComplianceStatus
	Violations      uint64 // monotonically non-decreasing
	RiskCategory    RiskCategory
	NextAuditDue    uint64 // logical-clock value
	// EscalationLevel feeds the predictive risk score. No operation in this
	// engine increments it; it exists for the staged escalation workflow.
	EscalationLevel uint64
}

// DigestSize is the length of the opaque evidence digest attached to reports.
const DigestSize = 32

// Digest is an opaque fixed-size evidence fingerprint. The engine records it
// verbatim; it performs no cryptographic verification.
type Digest [DigestSize]byte

// ParseDigest decodes a hex-encoded 32-byte digest from external input.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	raw, err := hex.DecodeString(s)
	if err != nil {
		return d, dErrors.New(dErrors.CodeInvalidData, "evidence digest must be hex encoded")
	}
	if len(raw) != DigestSize {
		return d, dErrors.Newf(dErrors.CodeInvalidData,
			"evidence digest must be %d bytes", DigestSize)
	}
	copy(d[:], raw)
	return d, nil
}

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Report is a single oracle-submitted attestation. Immutable once written
// except for the Validated flag, which ValidateReport overwrites without a
// single-write invariant.
type Report struct {
	ID             uint64
	EntityID       id.EntityID
	Oracle         id.OracleID
	Timestamp      uint64 // logical-clock value
	EvidenceDigest Digest
	Metrics        []uint64 // 1..5 values, each 0..100
	Notes          string
	Severity       string
	Validated      bool
}

// Audit is an independently recorded finding set. Immutable once written.
type Audit struct {
	ID               uint64
	EntityID         id.EntityID
	Auditor          id.OracleID
	AuditType        string
	Findings         []uint64 // 0..10 values
	Recommendations  string
	FollowUpRequired bool
	Timestamp        uint64 // logical-clock value
}

// Escalation is a queued remediation workflow item created on a CRITICAL
// transition. AssignedTo and ResolutionNotes stay empty until the resolution
// workflow exists.
type Escalation struct {
	ID              uint64
	EntityID        id.EntityID
	ViolationType   string
	Severity        uint64
	CreatedAt       uint64 // logical-clock value
	Status          EscalationStatus
	AssignedTo      id.OracleID
	ResolutionNotes string
}

// SystemStatus is a point-in-time view of the global counters and pause flag.
type SystemStatus struct {
	Paused        bool
	TotalEntities uint64
	OracleCount   uint64
}

// RiskPrediction is the forward-looking assessment for a single entity.
// RiskScore is unbounded above 100 by design.
type RiskPrediction struct {
	EntityID        id.EntityID
	RiskScore       uint64
	AtRisk          bool
	Confidence      uint64
	Recommendations []string
}

// CohortPrediction aggregates per-entity predictions across a cohort.
type CohortPrediction struct {
	Predictions         []RiskPrediction
	AtRiskEntities      []id.EntityID
	PredictedViolations uint64
	AvgConfidence       uint64
}

// RiskProfile is the fold over a cohort's current state. AverageScore is a
// pairwise running average, not an arithmetic mean; the bias is part of the
// aggregation contract and pinned by tests.
type RiskProfile struct {
	HighRisk        uint64
	MediumRisk      uint64
	LowRisk         uint64
	TotalViolations uint64
	AverageScore    uint64
	Trend           Trend
}

// RegulatoryPatterns is an intentionally static analytic: recommendations and
// framework compliance are placeholders until the real pattern engine lands.
type RegulatoryPatterns struct {
	Framework           string
	Recommendations     []string
	FrameworkCompliance uint64
}

// IntelligenceReport is the cohort-level composite exposed to callers.
type IntelligenceReport struct {
	Profile         RiskProfile
	Prediction      CohortPrediction
	Patterns        RegulatoryPatterns
	ConfidenceScore uint64
	GeneratedAt     uint64 // logical-clock value
}
