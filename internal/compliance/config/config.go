// Package config holds the compliance-domain constants. Values are fixed at
// build time; there is no runtime tuning surface.
package config

// Config carries the scoring thresholds, capacity caps, and scheduling
// intervals used across the compliance services.
type Config struct {
	// CompliantThreshold and CriticalThreshold bound the derived status:
	// score >= CompliantThreshold is COMPLIANT, score < CriticalThreshold is
	// CRITICAL, anything between is NON_COMPLIANT.
	CompliantThreshold uint64
	CriticalThreshold  uint64

	// MaxOracles caps the authorized-oracle count.
	MaxOracles uint64

	// AuditInterval is added to the logical clock to schedule the next audit
	// on registration and on every accepted report.
	AuditInterval uint64

	// MaxMetrics and MaxFindings bound submitted sequences. Oversized input
	// is rejected, never truncated.
	MaxMetrics  int
	MaxFindings int

	// MaxPredictionCohort bounds the entity list fed to the predictive risk
	// engine; MaxAtRiskEntities bounds its at-risk output.
	MaxPredictionCohort int
	MaxAtRiskEntities   int

	// EscalationDelay and AuditRetention are reserved configuration for the
	// escalation-resolution workflow. No operation reads them yet.
	EscalationDelay uint64
	AuditRetention  uint64
}

// Default returns the build-time configuration.
func Default() Config {
	return Config{
		CompliantThreshold:  70,
		CriticalThreshold:   40,
		MaxOracles:          10,
		AuditInterval:       1440,
		MaxMetrics:          5,
		MaxFindings:         10,
		MaxPredictionCohort: 50,
		MaxAtRiskEntities:   20,
		EscalationDelay:     144,
		AuditRetention:      4320,
	}
}
