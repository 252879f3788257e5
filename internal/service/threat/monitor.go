// Package threat implements the real-time threat monitor: sliding-window
// counters, payload signature scanning, behavioral anomaly scoring, and the
// automated response dispatcher. All detection state is process-local and
// non-durable.
package threat

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/config"
	"github.com/medovate/clinic-backend/internal/domain"
	auditsvc "github.com/medovate/clinic-backend/internal/service/audit"
)

// sessionController is the slice of the session manager threat responses
// act through.
type sessionController interface {
	ListActive(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)
	Terminate(ctx context.Context, token, reason string) (*domain.Session, error)
	Block(ctx context.Context, token, reason string) (*domain.Session, error)
	Quarantine(ctx context.Context, token, reason string) (*domain.Session, error)
}

// notifier delivers alerts to administrators.
type notifier interface {
	Notify(ctx context.Context, event *domain.SecurityEvent)
}

// auditRecorder mirrors detected events into the audit trail.
type auditRecorder interface {
	Record(ctx context.Context, input auditsvc.RecordInput) (*domain.AuditRecord, error)
}

// Monitor evaluates login attempts, requests, user activity, and data
// access against the detection rules and dispatches automated responses.
type Monitor struct {
	log      *slog.Logger
	cfg      config.ThreatConfig
	state    *stateStore
	sessions sessionController
	alerts   notifier
	audit    auditRecorder
	metrics  *Metrics

	// sensitivePrefixes routes matching request paths into data-access
	// monitoring; precomputed from cfg.
	sensitivePrefixes []string

	// now is swappable for tests.
	now func() time.Time
}

// NewMonitor creates a threat monitor with a fresh state container.
// sessions, alerts, and audit may be nil; the corresponding response
// actions then degrade to log-only.
func NewMonitor(
	logger *slog.Logger,
	cfg config.ThreatConfig,
	sessions sessionController,
	alerts notifier,
	audit auditRecorder,
	metrics *Metrics,
) *Monitor {
	return &Monitor{
		log:               logger.With("service", "threat"),
		cfg:               cfg,
		state:             newStateStore(),
		sessions:          sessions,
		alerts:            alerts,
		audit:             audit,
		metrics:           metrics,
		sensitivePrefixes: cfg.SensitivePrefixes(),
		now:               time.Now,
	}
}

// IsBlocked reports whether a source is currently blocked. Middleware calls
// this before any other monitor hook.
func (m *Monitor) IsBlocked(sourceID string) bool {
	return m.state.isBlocked(sourceID, m.now().UTC())
}

// IsThrottled reports whether a source is under a rate-limit response.
func (m *Monitor) IsThrottled(sourceID string) bool {
	return m.state.isThrottled(sourceID, m.now().UTC())
}

// UserRiskScore returns the current anomaly score for a user; zero for
// unknown users.
func (m *Monitor) UserRiskScore(userID uuid.UUID) float64 {
	m.state.muProfiles.RLock()
	p, ok := m.state.profiles[userID]
	m.state.muProfiles.RUnlock()
	if !ok {
		return 0
	}
	return p.riskScore()
}

// Events returns registered security events, newest first.
func (m *Monitor) Events(onlyOpen bool) []*domain.SecurityEvent {
	events := m.state.listEvents(onlyOpen)
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events
}

// ResolveEvent marks an event handled. Resolving an unknown event returns
// ErrNotFound; resolving twice returns ErrConflict.
func (m *Monitor) ResolveEvent(ctx context.Context, id uuid.UUID, note string) (*domain.SecurityEvent, error) {
	event, ok := m.state.event(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := event.Resolve(note, m.now().UTC()); err != nil {
		return nil, err
	}

	m.recordAudit(ctx, auditsvc.RecordInput{
		EventType:   domain.AuditEventSecurity,
		Severity:    domain.SeverityInfo,
		Resource:    domain.ResourceRef{Type: "security_event", ID: event.ID.String()},
		Action:      "threat.resolve",
		Description: "security event resolved: " + note,
	})
	return event, nil
}

// raise registers a new security event, mirrors it to the audit trail, and
// dispatches its response actions.
func (m *Monitor) raise(
	ctx context.Context,
	threatType domain.ThreatType,
	level domain.ThreatLevel,
	sourceID string,
	userID *uuid.UUID,
	description string,
	evidence map[string]any,
	actions []domain.ResponseAction,
) *domain.SecurityEvent {
	event := &domain.SecurityEvent{
		ID:          uuid.New(),
		Type:        threatType,
		Level:       level,
		SourceID:    sourceID,
		UserID:      userID,
		Description: description,
		Evidence:    evidence,
		Actions:     actions,
		CreatedAt:   m.now().UTC(),
	}
	m.state.addEvent(event)
	if m.metrics != nil {
		m.metrics.eventDetected(event)
	}

	m.log.WarnContext(ctx, "threat detected",
		slog.String("event_id", event.ID.String()),
		slog.String("type", threatType.String()),
		slog.String("level", level.String()),
		slog.String("source", sourceID),
		slog.String("description", description))

	severity := domain.SeverityWarning
	if level == domain.LevelHigh || level == domain.LevelCritical {
		severity = domain.SeverityCritical
	}
	audit := auditsvc.RecordInput{
		EventType:   domain.AuditEventSecurity,
		Severity:    severity,
		Resource:    domain.ResourceRef{Type: "security_event", ID: event.ID.String()},
		Action:      "threat.detect",
		Description: string(threatType) + ": " + description,
		After:       evidence,
	}
	if userID != nil {
		audit.Actor = domain.Actor{UserID: *userID}
	}
	m.recordAudit(ctx, audit)

	m.ExecuteResponses(ctx, event)
	return event
}

func (m *Monitor) recordAudit(ctx context.Context, input auditsvc.RecordInput) {
	if m.audit == nil {
		return
	}
	if _, err := m.audit.Record(ctx, input); err != nil {
		m.log.ErrorContext(ctx, "audit record rejected",
			slog.String("action", input.Action),
			slog.String("error", err.Error()))
	}
}
