package models

// HTTP response payloads.

type ReportIDResponse struct {
	ReportID uint64 `json:"report_id"`
}

type AuditIDResponse struct {
	AuditID uint64 `json:"audit_id"`
}

type OracleResponse struct {
	OracleID        string `json:"oracle_id"`
	Active          bool   `json:"active"`
	ReputationScore uint64 `json:"reputation_score"`
	TotalReports    uint64 `json:"total_reports"`
	LastActivity    uint64 `json:"last_activity"`
}

func ToOracleResponse(o *Oracle) OracleResponse {
	return OracleResponse{
		OracleID:        o.ID.String(),
		Active:          o.Active,
		ReputationScore: o.ReputationScore,
		TotalReports:    o.TotalReports,
		LastActivity:    o.LastActivity,
	}
}

type EntityResponse struct {
	EntityID        string `json:"entity_id"`
	Name            string `json:"name"`
	ComplianceScore uint64 `json:"compliance_score"`
	LastUpdated     uint64 `json:"last_updated"`
	Status          string `json:"status"`
	Violations      uint64 `json:"violations"`
	RiskCategory    string `json:"risk_category"`
	NextAuditDue    uint64 `json:"next_audit_due"`
	EscalationLevel uint64 `json:"escalation_level"`
}

func ToEntityResponse(e *Entity) EntityResponse {
	return EntityResponse{
		EntityID:        e.ID.String(),
		Name:            e.Name,
		ComplianceScore: e.ComplianceScore,
		LastUpdated:     e.LastUpdated,
		Status:          e.Status.String(),
		Violations:      e.Violations,
		RiskCategory:    e.RiskCategory.String(),
		NextAuditDue:    e.NextAuditDue,
		EscalationLevel: e.EscalationLevel,
	}
}

type ReportResponse struct {
	ReportID       uint64   `json:"report_id"`
	EntityID       string   `json:"entity_id"`
	OracleID       string   `json:"oracle_id"`
	Timestamp      uint64   `json:"timestamp"`
	EvidenceDigest string   `json:"evidence_digest"`
	Metrics        []uint64 `json:"metrics"`
	Notes          string   `json:"notes"`
	Severity       string   `json:"severity"`
	Validated      bool     `json:"validated"`
}

func ToReportResponse(r *Report) ReportResponse {
	return ReportResponse{
		ReportID:       r.ID,
		EntityID:       r.EntityID.String(),
		OracleID:       r.Oracle.String(),
		Timestamp:      r.Timestamp,
		EvidenceDigest: r.EvidenceDigest.String(),
		Metrics:        r.Metrics,
		Notes:          r.Notes,
		Severity:       r.Severity,
		Validated:      r.Validated,
	}
}

type AuditResponse struct {
	AuditID          uint64   `json:"audit_id"`
	EntityID         string   `json:"entity_id"`
	Auditor          string   `json:"auditor"`
	AuditType        string   `json:"audit_type"`
	Findings         []uint64 `json:"findings"`
	Recommendations  string   `json:"recommendations"`
	FollowUpRequired bool     `json:"follow_up_required"`
	Timestamp        uint64   `json:"timestamp"`
}

func ToAuditResponse(a *Audit) AuditResponse {
	return AuditResponse{
		AuditID:          a.ID,
		EntityID:         a.EntityID.String(),
		Auditor:          a.Auditor.String(),
		AuditType:        a.AuditType,
		Findings:         a.Findings,
		Recommendations:  a.Recommendations,
		FollowUpRequired: a.FollowUpRequired,
		Timestamp:        a.Timestamp,
	}
}

type EscalationResponse struct {
	EscalationID    uint64 `json:"escalation_id"`
	EntityID        string `json:"entity_id"`
	ViolationType   string `json:"violation_type"`
	Severity        uint64 `json:"severity"`
	CreatedAt       uint64 `json:"created_at"`
	Status          string `json:"status"`
	AssignedTo      string `json:"assigned_to,omitempty"`
	ResolutionNotes string `json:"resolution_notes,omitempty"`
}

func ToEscalationResponse(e *Escalation) EscalationResponse {
	return EscalationResponse{
		EscalationID:    e.ID,
		EntityID:        e.EntityID.String(),
		ViolationType:   e.ViolationType,
		Severity:        e.Severity,
		CreatedAt:       e.CreatedAt,
		Status:          e.Status.String(),
		AssignedTo:      e.AssignedTo.String(),
		ResolutionNotes: e.ResolutionNotes,
	}
}

type SystemStatusResponse struct {
	Paused        bool   `json:"paused"`
	TotalEntities uint64 `json:"total_entities"`
	OracleCount   uint64 `json:"oracle_count"`
}

type RiskPredictionResponse struct {
	EntityID        string   `json:"entity_id"`
	RiskScore       uint64   `json:"risk_score"`
	AtRisk          bool     `json:"at_risk"`
	Confidence      uint64   `json:"confidence"`
	Recommendations []string `json:"recommendations,omitempty"`
}

type IntelReportResponse struct {
	Profile struct {
		HighRisk        uint64 `json:"high_risk"`
		MediumRisk      uint64 `json:"medium_risk"`
		LowRisk         uint64 `json:"low_risk"`
		TotalViolations uint64 `json:"total_violations"`
		AverageScore    uint64 `json:"average_score"`
		Trend           string `json:"trend"`
	} `json:"profile"`
	Predictions         []RiskPredictionResponse `json:"predictions"`
	AtRiskEntities      []string                 `json:"at_risk_entities"`
	PredictedViolations uint64                   `json:"predicted_violations"`
	Framework           string                   `json:"framework"`
	Recommendations     []string                 `json:"recommendations"`
	FrameworkCompliance uint64                   `json:"framework_compliance"`
	ConfidenceScore     uint64                   `json:"confidence_score"`
	GeneratedAt         uint64                   `json:"generated_at"`
}

func ToIntelReportResponse(r *IntelligenceReport) IntelReportResponse {
	var resp IntelReportResponse
	resp.Profile.HighRisk = r.Profile.HighRisk
	resp.Profile.MediumRisk = r.Profile.MediumRisk
	resp.Profile.LowRisk = r.Profile.LowRisk
	resp.Profile.TotalViolations = r.Profile.TotalViolations
	resp.Profile.AverageScore = r.Profile.AverageScore
	resp.Profile.Trend = string(r.Profile.Trend)

	resp.Predictions = make([]RiskPredictionResponse, 0, len(r.Prediction.Predictions))
	for _, p := range r.Prediction.Predictions {
		resp.Predictions = append(resp.Predictions, RiskPredictionResponse{
			EntityID:        p.EntityID.String(),
			RiskScore:       p.RiskScore,
			AtRisk:          p.AtRisk,
			Confidence:      p.Confidence,
			Recommendations: p.Recommendations,
		})
	}
	resp.AtRiskEntities = make([]string, 0, len(r.Prediction.AtRiskEntities))
	for _, entityID := range r.Prediction.AtRiskEntities {
		resp.AtRiskEntities = append(resp.AtRiskEntities, entityID.String())
	}
	resp.PredictedViolations = r.Prediction.PredictedViolations
	resp.Framework = r.Patterns.Framework
	resp.Recommendations = r.Patterns.Recommendations
	resp.FrameworkCompliance = r.Patterns.FrameworkCompliance
	resp.ConfidenceScore = r.ConfidenceScore
	resp.GeneratedAt = r.GeneratedAt
	return resp
}
