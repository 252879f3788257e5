package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
	auditsvc "github.com/medovate/clinic-backend/internal/service/audit"
	sessionsvc "github.com/medovate/clinic-backend/internal/service/session"
	threatsvc "github.com/medovate/clinic-backend/internal/service/threat"
	"github.com/medovate/clinic-backend/internal/transport/middleware"
)

// auditReviewer defines the audit trail operations exposed to admins.
type auditReviewer interface {
	Search(ctx context.Context, filter domain.AuditFilter, limit, offset int) (*auditsvc.SearchResult, error)
	VerifyRecord(ctx context.Context, id uuid.UUID) (*domain.AuditRecord, error)
	SweepIntegrity(ctx context.Context, filter domain.AuditFilter) ([]uuid.UUID, error)
	SummarizeActorActivity(ctx context.Context, actorID uuid.UUID, windowDays int) (*domain.ActorActivitySummary, error)
	PurgeExpired(ctx context.Context) (int, error)
}

// threatReviewer defines the threat monitor operations exposed to admins.
type threatReviewer interface {
	Events(onlyOpen bool) []*domain.SecurityEvent
	ResolveEvent(ctx context.Context, id uuid.UUID, note string) (*domain.SecurityEvent, error)
	Stats() threatsvc.Snapshot
	CleanupOldData(ctx context.Context, olderThan time.Duration) threatsvc.CleanupResult
}

// sessionSweeper purges expired and idle sessions.
type sessionSweeper interface {
	PurgeExpired(ctx context.Context) (*sessionsvc.PurgeResult, error)
}

// AdminHandler serves the security review REST endpoints.
type AdminHandler struct {
	audit    auditReviewer
	threats  threatReviewer
	sessions sessionSweeper
	log      *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(audit auditReviewer, threats threatReviewer, sessions sessionSweeper, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		audit:    audit,
		threats:  threats,
		sessions: sessions,
		log:      logger.With("handler", "admin"),
	}
}

// ---------------------------------------------------------------------------
// Audit trail
// ---------------------------------------------------------------------------

type auditSearchResponse struct {
	Records []auditRecordResponse `json:"records"`
	Total   int                   `json:"total"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
}

type auditRecordResponse struct {
	ID          string         `json:"id"`
	EventType   string         `json:"eventType"`
	Severity    string         `json:"severity"`
	ActorID     string         `json:"actorId"`
	ActorName   string         `json:"actorName"`
	ActorRole   string         `json:"actorRole"`
	SessionID   *string        `json:"sessionId,omitempty"`
	Resource    string         `json:"resource,omitempty"`
	ResourceID  string         `json:"resourceId,omitempty"`
	Action      string         `json:"action"`
	Description string         `json:"description,omitempty"`
	Before      map[string]any `json:"before,omitempty"`
	After       map[string]any `json:"after,omitempty"`
	Endpoint    string         `json:"endpoint,omitempty"`
	Sensitive   bool           `json:"sensitive"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// SearchAudit handles GET /admin/audit. Filters come from query parameters:
// actor_id, event_type (repeatable), severity, resource_type, resource_id,
// sensitive, from, to (RFC 3339), limit, offset.
func (h *AdminHandler) SearchAudit(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	filter, err := auditFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := intQuery(r, "limit", 0)
	offset := intQuery(r, "offset", 0)

	result, err := h.audit.Search(r.Context(), filter, limit, offset)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	records := make([]auditRecordResponse, 0, len(result.Records))
	for _, record := range result.Records {
		records = append(records, toAuditRecordResponse(record))
	}

	writeJSON(w, http.StatusOK, auditSearchResponse{
		Records: records,
		Total:   result.Total,
		Limit:   result.Limit,
		Offset:  result.Offset,
	})
}

type verifyResponse struct {
	ID     string `json:"id"`
	Intact bool   `json:"intact"`
}

// VerifyAuditRecord handles POST /admin/audit/{id}/verify. A checksum
// mismatch is reported, never corrected.
func (h *AdminHandler) VerifyAuditRecord(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	record, err := h.audit.VerifyRecord(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrIntegrity) {
			writeJSON(w, http.StatusOK, verifyResponse{ID: record.ID.String(), Intact: false})
			return
		}
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{ID: record.ID.String(), Intact: true})
}

type sweepResponse struct {
	Checked  bool     `json:"checked"`
	Tampered []string `json:"tampered"`
}

// SweepAuditIntegrity handles POST /admin/audit/verify: bulk checksum
// verification over an optional filter.
func (h *AdminHandler) SweepAuditIntegrity(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	filter, err := auditFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tampered, err := h.audit.SweepIntegrity(r.Context(), filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	ids := make([]string, 0, len(tampered))
	for _, id := range tampered {
		ids = append(ids, id.String())
	}
	writeJSON(w, http.StatusOK, sweepResponse{Checked: true, Tampered: ids})
}

type actorSummaryResponse struct {
	ActorID        string         `json:"actorId"`
	WindowDays     int            `json:"windowDays"`
	Total          int            `json:"total"`
	ByType         map[string]int `json:"byType"`
	ByDay          map[string]int `json:"byDay"`
	BySeverity     map[string]int `json:"bySeverity"`
	BusiestDay     string         `json:"busiestDay,omitempty"`
	SecurityEvents int            `json:"securityEvents"`
}

// ActorSummary handles GET /admin/audit/actors/{id}/summary?window_days=30.
func (h *AdminHandler) ActorSummary(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	actorID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid actor id")
		return
	}

	summary, err := h.audit.SummarizeActorActivity(r.Context(), actorID, intQuery(r, "window_days", 30))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := actorSummaryResponse{
		ActorID:        summary.ActorID.String(),
		WindowDays:     summary.WindowDays,
		Total:          summary.Total,
		ByType:         make(map[string]int, len(summary.ByType)),
		ByDay:          summary.ByDay,
		BySeverity:     make(map[string]int, len(summary.BySeverity)),
		BusiestDay:     summary.BusiestDay,
		SecurityEvents: summary.SecurityEvents,
	}
	for k, v := range summary.ByType {
		resp.ByType[k.String()] = v
	}
	for k, v := range summary.BySeverity {
		resp.BySeverity[k.String()] = v
	}

	writeJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Threat monitor
// ---------------------------------------------------------------------------

type securityEventResponse struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Level       string         `json:"level"`
	SourceID    string         `json:"sourceId,omitempty"`
	UserID      *string        `json:"userId,omitempty"`
	Description string         `json:"description"`
	Evidence    map[string]any `json:"evidence,omitempty"`
	Actions     []string       `json:"actions"`
	Resolved    bool           `json:"resolved"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ListThreats handles GET /admin/threats?open=true.
func (h *AdminHandler) ListThreats(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	onlyOpen := r.URL.Query().Get("open") == "true"
	events := h.threats.Events(onlyOpen)

	out := make([]securityEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toSecurityEventResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

type resolveRequest struct {
	Note string `json:"note"`
}

// ResolveThreat handles POST /admin/threats/{id}/resolve.
func (h *AdminHandler) ResolveThreat(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.threats.ResolveEvent(r.Context(), id, req.Note)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSecurityEventResponse(event))
}

// ThreatStats handles GET /admin/threats/stats.
func (h *AdminHandler) ThreatStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	writeJSON(w, http.StatusOK, h.threats.Stats())
}

// ---------------------------------------------------------------------------
// Maintenance
// ---------------------------------------------------------------------------

type cleanupResponse struct {
	AuditPurged     int                     `json:"auditPurged"`
	SessionsExpired int                     `json:"sessionsExpired"`
	SessionsIdle    int                     `json:"sessionsIdle"`
	Threat          threatsvc.CleanupResult `json:"threat"`
}

// Cleanup handles POST /admin/cleanup?older_than=720h: retention sweep
// across the audit trail, session store, and threat state.
func (h *AdminHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	olderThan := 30 * 24 * time.Hour
	if v := r.URL.Query().Get("older_than"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "invalid older_than duration")
			return
		}
		olderThan = d
	}

	purged, err := h.audit.PurgeExpired(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	sessions, err := h.sessions.PurgeExpired(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	threat := h.threats.CleanupOldData(r.Context(), olderThan)

	writeJSON(w, http.StatusOK, cleanupResponse{
		AuditPurged:     purged,
		SessionsExpired: sessions.Expired,
		SessionsIdle:    sessions.Idle,
		Threat:          threat,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		writeError(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}

func (h *AdminHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func auditFilterFromQuery(r *http.Request) (domain.AuditFilter, error) {
	var filter domain.AuditFilter
	q := r.URL.Query()

	if v := q.Get("actor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, errors.New("invalid actor_id")
		}
		filter.ActorID = &id
	}
	for _, v := range q["event_type"] {
		et := domain.AuditEventType(v)
		if !et.IsValid() {
			return filter, errors.New("invalid event_type " + v)
		}
		filter.EventTypes = append(filter.EventTypes, et)
	}
	if v := q.Get("severity"); v != "" {
		sev := domain.AuditSeverity(v)
		if !sev.IsValid() {
			return filter, errors.New("invalid severity")
		}
		filter.Severity = &sev
	}
	filter.ResourceType = q.Get("resource_type")
	filter.ResourceID = q.Get("resource_id")
	filter.SensitiveOnly = q.Get("sensitive") == "true"

	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("invalid from timestamp")
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("invalid to timestamp")
		}
		filter.To = &t
	}

	return filter, nil
}

func intQuery(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func toAuditRecordResponse(record *domain.AuditRecord) auditRecordResponse {
	resp := auditRecordResponse{
		ID:          record.ID.String(),
		EventType:   record.EventType.String(),
		Severity:    record.Severity.String(),
		ActorID:     record.Actor.UserID.String(),
		ActorName:   record.Actor.UserName,
		ActorRole:   record.Actor.Role.String(),
		Resource:    record.Resource.Type,
		ResourceID:  record.Resource.ID,
		Action:      record.Action,
		Description: record.Description,
		Before:      record.Before,
		After:       record.After,
		Endpoint:    record.Context.Endpoint,
		Sensitive:   record.Sensitive,
		CreatedAt:   record.CreatedAt,
	}
	if record.SessionID != nil {
		sid := record.SessionID.String()
		resp.SessionID = &sid
	}
	return resp
}

func toSecurityEventResponse(e *domain.SecurityEvent) securityEventResponse {
	resp := securityEventResponse{
		ID:          e.ID.String(),
		Type:        string(e.Type),
		Level:       string(e.Level),
		SourceID:    e.SourceID,
		Description: e.Description,
		Evidence:    e.Evidence,
		Actions:     make([]string, 0, len(e.Actions)),
		Resolved:    e.Resolved,
		CreatedAt:   e.CreatedAt,
	}
	if e.UserID != nil {
		uid := e.UserID.String()
		resp.UserID = &uid
	}
	for _, a := range e.Actions {
		resp.Actions = append(resp.Actions, string(a))
	}
	return resp
}
