package models

// HTTP request payloads. Parsing into domain values happens in the handler via
// the Parse* constructors; these structs stay dumb.

type AddOracleRequest struct {
	OracleID          string `json:"oracle_id"`
	InitialReputation uint64 `json:"initial_reputation"`
}

type RegisterEntityRequest struct {
	EntityID string `json:"entity_id"`
	Name     string `json:"name"`
}

type SubmitReportRequest struct {
	EvidenceDigest string   `json:"evidence_digest"` // hex, 32 bytes
	Metrics        []uint64 `json:"metrics"`
	Notes          string   `json:"notes"`
	Severity       string   `json:"severity"`
}

type ValidateReportRequest struct {
	Valid bool `json:"valid"`
}

type RecordAuditRequest struct {
	AuditType       string   `json:"audit_type"`
	Findings        []uint64 `json:"findings"`
	Recommendations string   `json:"recommendations"`
}

type IntelReportRequest struct {
	EntityIDs []string `json:"entity_ids"`
	Framework string   `json:"framework"`
}
