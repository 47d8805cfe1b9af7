// Package risk computes forward-looking risk assessments. This is pure domain
// logic - no I/O, no side effects. Functions receive entity snapshots plus the
// logical clock value and return derived figures.
package risk

import (
	"vigil/internal/compliance/models"
)

// Fixed recommendation attached to at-risk entities.
const RecommendationImmediateAudit = "IMMEDIATE_AUDIT_REQUIRED"

// Scoring constants. The predictive score is unbounded above 100 by design.
const (
	violationWeight    = 15
	escalationWeight   = 10
	stalenessPenalty   = 20
	stalenessHorizon   = 720
	atRiskThreshold    = 75
	predictedThreshold = 80

	freshHorizon         = 144
	freshConfidence      = 90
	staleConfidence      = 60
	consistentLimit      = 3
	consistentConfidence = 80
	erraticConfidence    = 50
)

// Score computes the predictive risk score for one entity:
// inverted compliance score, weighted violations, a staleness penalty past
// 720 ticks, and the escalation level.
func Score(e *models.Entity, now uint64) uint64 {
	score := (100 - e.ComplianceScore) + e.Violations*violationWeight
	if now-e.LastUpdated > stalenessHorizon {
		score += stalenessPenalty
	}
	return score + e.EscalationLevel*escalationWeight
}

// Confidence averages a freshness term and a consistency term.
func Confidence(e *models.Entity, now uint64) uint64 {
	freshness := uint64(staleConfidence)
	if now-e.LastUpdated < freshHorizon {
		freshness = freshConfidence
	}
	consistency := uint64(erraticConfidence)
	if e.Violations < consistentLimit {
		consistency = consistentConfidence
	}
	return (freshness + consistency) / 2
}

// Predict assesses each entity in the cohort. Entities scoring above 75 are
// marked at risk (capped at maxAtRisk entries); scores above 80 also count as
// predicted violations. AvgConfidence is the integer mean of the per-entity
// confidences.
func Predict(entities []*models.Entity, now uint64, maxAtRisk int) models.CohortPrediction {
	prediction := models.CohortPrediction{
		Predictions: make([]models.RiskPrediction, 0, len(entities)),
	}

	var confidenceSum uint64
	for _, e := range entities {
		p := models.RiskPrediction{
			EntityID:   e.ID,
			RiskScore:  Score(e, now),
			Confidence: Confidence(e, now),
		}
		if p.RiskScore > atRiskThreshold {
			p.AtRisk = true
			p.Recommendations = append(p.Recommendations, RecommendationImmediateAudit)
			if len(prediction.AtRiskEntities) < maxAtRisk {
				prediction.AtRiskEntities = append(prediction.AtRiskEntities, e.ID)
			}
		}
		if p.RiskScore > predictedThreshold {
			prediction.PredictedViolations++
		}
		confidenceSum += p.Confidence
		prediction.Predictions = append(prediction.Predictions, p)
	}

	if len(entities) > 0 {
		prediction.AvgConfidence = confidenceSum / uint64(len(entities))
	}
	return prediction
}

// Profile folds over the cohort accumulating risk-category counts, total
// violations, a pairwise running average of compliance scores, and a trend
// label. The running average intentionally weights by fold order (each step
// averages the accumulator with the new score); do not replace it with a true
// mean.
func Profile(entities []*models.Entity) models.RiskProfile {
	profile := models.RiskProfile{Trend: models.TrendStable}

	for _, e := range entities {
		switch e.RiskCategory {
		case models.RiskHigh:
			profile.HighRisk++
		case models.RiskMedium:
			profile.MediumRisk++
		case models.RiskLow:
			profile.LowRisk++
		}
		profile.TotalViolations += e.Violations

		profile.AverageScore = (profile.AverageScore + e.ComplianceScore) / 2

		switch {
		case e.ComplianceScore > profile.AverageScore+10:
			profile.Trend = models.TrendImproving
		case e.ComplianceScore+10 < profile.AverageScore:
			profile.Trend = models.TrendDeclining
		default:
			profile.Trend = models.TrendStable
		}
	}
	return profile
}

// OverallConfidence combines a data-quality term with the cohort's aggregated
// prediction confidence for a compiled report.
func OverallConfidence(profile models.RiskProfile, prediction models.CohortPrediction) uint64 {
	dataQuality := uint64(60)
	if profile.HighRisk+profile.MediumRisk+profile.LowRisk > 5 {
		dataQuality = 80
	}
	return (dataQuality + prediction.AvgConfidence) / 2
}
