// Package handler exposes the compliance engine over HTTP.
//
// Route-level middleware decides how the actor is built: admin routes carry
// the shared token, oracle routes carry a bearer token. Capability checks
// beyond authentication live in the services.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"vigil/internal/compliance/models"
	"vigil/internal/compliance/service/ingest"
	id "vigil/pkg/domain"
	dErrors "vigil/pkg/domain-errors"
	"vigil/pkg/platform/httputil"
	"vigil/pkg/platform/middleware/admin"
	"vigil/pkg/platform/middleware/auth"
	"vigil/pkg/platform/middleware/request"
)

// RegistryService covers the oracle/entity registry and the pause switch.
type RegistryService interface {
	AddOracle(ctx context.Context, actor models.Actor, oracleID id.OracleID, initialReputation uint64) error
	DeactivateOracle(ctx context.Context, actor models.Actor, oracleID id.OracleID) error
	RegisterEntity(ctx context.Context, actor models.Actor, entityID id.EntityID, name string) error
	Pause(ctx context.Context, actor models.Actor) error
	Unpause(ctx context.Context, actor models.Actor) error
	GetEntity(ctx context.Context, actor models.Actor, entityID id.EntityID) (*models.Entity, error)
	ListOracles(ctx context.Context, actor models.Actor) ([]*models.Oracle, error)
	SystemStatus(ctx context.Context, actor models.Actor) (models.SystemStatus, error)
}

// IngestService covers report submission, validation, audits, and the
// per-entity read surface.
type IngestService interface {
	Submit(ctx context.Context, actor models.Actor, entityID id.EntityID, in ingest.SubmitInput) (uint64, error)
	ValidateReport(ctx context.Context, actor models.Actor, entityID id.EntityID, reportID uint64, valid bool) error
	RecordAudit(ctx context.Context, actor models.Actor, entityID id.EntityID, in ingest.AuditInput) (uint64, error)
	ListReports(ctx context.Context, actor models.Actor, entityID id.EntityID) ([]*models.Report, error)
	ListAudits(ctx context.Context, actor models.Actor, entityID id.EntityID) ([]*models.Audit, error)
	ListEscalations(ctx context.Context, actor models.Actor, entityID id.EntityID) ([]*models.Escalation, error)
}

// IntelService compiles cohort intelligence reports.
type IntelService interface {
	Generate(ctx context.Context, actor models.Actor, entityIDs []id.EntityID, framework string) (*models.IntelligenceReport, error)
}

// Handler wires compliance endpoints to the services.
type Handler struct {
	registry RegistryService
	ingest   IngestService
	intel    IntelService
	logger   *slog.Logger
}

// New constructs a compliance handler with its dependencies.
func New(registry RegistryService, ingestSvc IngestService, intelSvc IntelService, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		ingest:   ingestSvc,
		intel:    intelSvc,
		logger:   logger,
	}
}

// Register mounts the compliance routes. adminMW gates admin routes behind
// the shared token; oracleMW authenticates bearer tokens on oracle routes.
func (h *Handler) Register(r chi.Router, adminMW, oracleMW func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(adminMW)
		r.Post("/admin/pause", h.HandlePause)
		r.Post("/admin/unpause", h.HandleUnpause)
		r.Post("/admin/oracles", h.HandleAddOracle)
		r.Delete("/admin/oracles/{oracleID}", h.HandleDeactivateOracle)
		r.Post("/admin/entities", h.HandleRegisterEntity)
		r.Post("/admin/entities/{entityID}/reports/{reportID}/validation", h.HandleValidateReport)
		r.Get("/admin/system", h.HandleSystemStatus)
	})

	r.Group(func(r chi.Router) {
		r.Use(oracleMW)
		r.Get("/oracles", h.HandleListOracles)
		r.Get("/entities/{entityID}", h.HandleGetEntity)
		r.Post("/entities/{entityID}/reports", h.HandleSubmitReport)
		r.Get("/entities/{entityID}/reports", h.HandleListReports)
		r.Post("/entities/{entityID}/audits", h.HandleRecordAudit)
		r.Get("/entities/{entityID}/audits", h.HandleListAudits)
		r.Get("/entities/{entityID}/escalations", h.HandleListEscalations)
		r.Post("/intel/report", h.HandleIntelReport)
	})
}

// actorFrom builds the capability view of the caller from whatever the route
// middleware established.
func actorFrom(ctx context.Context) models.Actor {
	if admin.IsAdmin(ctx) {
		return models.Actor{ID: "admin", Admin: true}
	}
	return models.Actor{ID: id.OracleID(auth.GetOracleID(ctx))}
}

// HandlePause handles POST /admin/pause.
func (h *Handler) HandlePause(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.registry.Pause(ctx, actorFrom(ctx)); err != nil {
		h.writeError(ctx, w, "pause failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUnpause handles POST /admin/unpause.
func (h *Handler) HandleUnpause(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.registry.Unpause(ctx, actorFrom(ctx)); err != nil {
		h.writeError(ctx, w, "unpause failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddOracle handles POST /admin/oracles.
func (h *Handler) HandleAddOracle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.AddOracleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	oracleID, err := id.ParseOracleID(req.OracleID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.registry.AddOracle(ctx, actorFrom(ctx), oracleID, req.InitialReputation); err != nil {
		h.writeError(ctx, w, "add oracle failed", err, "oracle_id", req.OracleID)
		return
	}

	h.logger.InfoContext(ctx, "oracle added",
		"request_id", requestID,
		"oracle_id", req.OracleID,
	)
	w.WriteHeader(http.StatusCreated)
}

// HandleDeactivateOracle handles DELETE /admin/oracles/{oracleID}.
func (h *Handler) HandleDeactivateOracle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	oracleID, err := id.ParseOracleID(chi.URLParam(r, "oracleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.registry.DeactivateOracle(ctx, actorFrom(ctx), oracleID); err != nil {
		h.writeError(ctx, w, "deactivate oracle failed", err, "oracle_id", oracleID)
		return
	}

	h.logger.InfoContext(ctx, "oracle deactivated",
		"request_id", request.GetRequestID(ctx),
		"oracle_id", oracleID,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleListOracles handles GET /oracles.
func (h *Handler) HandleListOracles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	oracles, err := h.registry.ListOracles(ctx, actorFrom(ctx))
	if err != nil {
		h.writeError(ctx, w, "list oracles failed", err)
		return
	}

	resp := make([]models.OracleResponse, 0, len(oracles))
	for _, o := range oracles {
		resp = append(resp, models.ToOracleResponse(o))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleRegisterEntity handles POST /admin/entities.
func (h *Handler) HandleRegisterEntity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RegisterEntityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	entityID, err := id.ParseEntityID(req.EntityID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.registry.RegisterEntity(ctx, actorFrom(ctx), entityID, req.Name); err != nil {
		h.writeError(ctx, w, "register entity failed", err, "entity_id", req.EntityID)
		return
	}

	h.logger.InfoContext(ctx, "entity registered",
		"request_id", requestID,
		"entity_id", req.EntityID,
	)
	w.WriteHeader(http.StatusCreated)
}

// HandleGetEntity handles GET /entities/{entityID}.
func (h *Handler) HandleGetEntity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entityID, err := id.ParseEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entity, err := h.registry.GetEntity(ctx, actorFrom(ctx), entityID)
	if err != nil {
		h.writeError(ctx, w, "get entity failed", err, "entity_id", entityID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToEntityResponse(entity))
}

// HandleSubmitReport handles POST /entities/{entityID}/reports.
func (h *Handler) HandleSubmitReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	start := time.Now()

	entityID, err := id.ParseEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.SubmitReportRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	digest, err := models.ParseDigest(req.EvidenceDigest)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reportID, err := h.ingest.Submit(ctx, actorFrom(ctx), entityID, ingest.SubmitInput{
		EvidenceDigest: digest,
		Metrics:        req.Metrics,
		Notes:          req.Notes,
		Severity:       req.Severity,
	})
	if err != nil {
		h.writeError(ctx, w, "report submission failed", err, "entity_id", entityID)
		return
	}

	h.logger.InfoContext(ctx, "report submitted",
		"request_id", requestID,
		"entity_id", entityID,
		"report_id", reportID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, models.ReportIDResponse{ReportID: reportID})
}

// HandleListReports handles GET /entities/{entityID}/reports.
func (h *Handler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entityID, err := id.ParseEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reports, err := h.ingest.ListReports(ctx, actorFrom(ctx), entityID)
	if err != nil {
		h.writeError(ctx, w, "list reports failed", err, "entity_id", entityID)
		return
	}

	resp := make([]models.ReportResponse, 0, len(reports))
	for _, rep := range reports {
		resp = append(resp, models.ToReportResponse(rep))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleValidateReport handles
// POST /admin/entities/{entityID}/reports/{reportID}/validation.
func (h *Handler) HandleValidateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	entityID, err := id.ParseEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	reportID, err := strconv.ParseUint(chi.URLParam(r, "reportID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "report id must be a number"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.ValidateReportRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.ingest.ValidateReport(ctx, actorFrom(ctx), entityID, reportID, req.Valid); err != nil {
		h.writeError(ctx, w, "report validation failed", err,
			"entity_id", entityID,
			"report_id", reportID,
		)
		return
	}

	h.logger.InfoContext(ctx, "report validated",
		"request_id", requestID,
		"entity_id", entityID,
		"report_id", reportID,
		"valid", req.Valid,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleRecordAudit handles POST /entities/{entityID}/audits.
func (h *Handler) HandleRecordAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	entityID, err := id.ParseEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.RecordAuditRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	auditID, err := h.ingest.RecordAudit(ctx, actorFrom(ctx), entityID, ingest.AuditInput{
		AuditType:       req.AuditType,
		Findings:        req.Findings,
		Recommendations: req.Recommendations,
	})
	if err != nil {
		h.writeError(ctx, w, "audit recording failed", err, "entity_id", entityID)
		return
	}

	h.logger.InfoContext(ctx, "audit recorded",
		"request_id", requestID,
		"entity_id", entityID,
		"audit_id", auditID,
	)
	httputil.WriteJSON(w, http.StatusCreated, models.AuditIDResponse{AuditID: auditID})
}

// HandleListAudits handles GET /entities/{entityID}/audits.
func (h *Handler) HandleListAudits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entityID, err := id.ParseEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	audits, err := h.ingest.ListAudits(ctx, actorFrom(ctx), entityID)
	if err != nil {
		h.writeError(ctx, w, "list audits failed", err, "entity_id", entityID)
		return
	}

	resp := make([]models.AuditResponse, 0, len(audits))
	for _, a := range audits {
		resp = append(resp, models.ToAuditResponse(a))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleListEscalations handles GET /entities/{entityID}/escalations.
func (h *Handler) HandleListEscalations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entityID, err := id.ParseEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	escalations, err := h.ingest.ListEscalations(ctx, actorFrom(ctx), entityID)
	if err != nil {
		h.writeError(ctx, w, "list escalations failed", err, "entity_id", entityID)
		return
	}

	resp := make([]models.EscalationResponse, 0, len(escalations))
	for _, e := range escalations {
		resp = append(resp, models.ToEscalationResponse(e))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleIntelReport handles POST /intel/report.
func (h *Handler) HandleIntelReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[models.IntelReportRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	entityIDs := make([]id.EntityID, 0, len(req.EntityIDs))
	for _, raw := range req.EntityIDs {
		entityID, err := id.ParseEntityID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		entityIDs = append(entityIDs, entityID)
	}

	report, err := h.intel.Generate(ctx, actorFrom(ctx), entityIDs, req.Framework)
	if err != nil {
		h.writeError(ctx, w, "intel report failed", err, "cohort_size", len(entityIDs))
		return
	}

	h.logger.InfoContext(ctx, "intel report generated",
		"request_id", requestID,
		"cohort_size", len(entityIDs),
		"at_risk", len(report.Prediction.AtRiskEntities),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, models.ToIntelReportResponse(report))
}

// HandleSystemStatus handles GET /admin/system.
func (h *Handler) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := h.registry.SystemStatus(ctx, actorFrom(ctx))
	if err != nil {
		h.writeError(ctx, w, "system status failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.SystemStatusResponse{
		Paused:        status.Paused,
		TotalEntities: status.TotalEntities,
		OracleCount:   status.OracleCount,
	})
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, msg string, err error, args ...any) {
	args = append(args,
		"request_id", request.GetRequestID(ctx),
		"error", err.Error(),
	)
	h.logger.ErrorContext(ctx, msg, args...)
	httputil.WriteError(w, err)
}
