package ingest

import (
	"vigil/internal/compliance/config"
	"vigil/internal/compliance/models"
)

// ComplianceScore derives the 0-100 score from submitted metrics using
// truncating integer division. Callers validate the sequence first.
func ComplianceScore(metrics []uint64) uint64 {
	var sum uint64
	for _, m := range metrics {
		sum += m
	}
	return sum / uint64(len(metrics))
}

// DeriveStatus maps a score onto the compliance status bands:
// COMPLIANT at and above the compliant threshold, CRITICAL below the critical
// threshold, NON_COMPLIANT between.
func DeriveStatus(score uint64, cfg config.Config) models.ComplianceStatus {
	switch {
	case score >= cfg.CompliantThreshold:
		return models.StatusCompliant
	case score >= cfg.CriticalThreshold:
		return models.StatusNonCompliant
	default:
		return models.StatusCritical
	}
}

// DeriveRiskCategory classifies score and violation count. An entity at or
// above the compliant threshold is LOW even with many violations: the MEDIUM
// branch requires a sub-threshold score. That asymmetry is part of the
// classification contract; keep it.
func DeriveRiskCategory(score, violations uint64, cfg config.Config) models.RiskCategory {
	switch {
	case score < cfg.CriticalThreshold:
		return models.RiskHigh
	case score < cfg.CompliantThreshold && violations > 3:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
