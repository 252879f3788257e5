package threat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medovate/clinic-backend/internal/domain"
	auditsvc "github.com/medovate/clinic-backend/internal/service/audit"
)

// ExecuteResponses dispatches every action attached to an event. Actions
// run independently: one failing is logged and the rest still execute.
// Actions whose target is gone (no session token, no user) are safe no-ops.
func (m *Monitor) ExecuteResponses(ctx context.Context, event *domain.SecurityEvent) {
	for _, action := range event.Actions {
		if err := m.executeResponse(ctx, event, action); err != nil {
			if m.metrics != nil {
				m.metrics.responseFailed(action)
			}
			m.log.ErrorContext(ctx, "response action failed",
				slog.String("event_id", event.ID.String()),
				slog.String("action", action.String()),
				slog.String("error", err.Error()))
			continue
		}
		if m.metrics != nil {
			m.metrics.responseExecuted(action)
		}
	}
}

func (m *Monitor) executeResponse(ctx context.Context, event *domain.SecurityEvent, action domain.ResponseAction) error {
	now := m.now().UTC()

	switch action {
	case domain.ActionBlockSource:
		if event.SourceID == "" {
			return nil
		}
		m.state.block(event.SourceID, now.Add(m.cfg.BlockDuration))
		m.log.WarnContext(ctx, "source blocked",
			slog.String("source", event.SourceID),
			slog.String("duration", m.cfg.BlockDuration.String()))

	case domain.ActionRateLimit:
		if event.SourceID == "" {
			return nil
		}
		m.state.throttle(event.SourceID, now.Add(m.cfg.BlockDuration))

	case domain.ActionForceLogout:
		if m.sessions == nil || event.UserID == nil {
			return nil
		}
		active, err := m.sessions.ListActive(ctx, *event.UserID)
		if err != nil {
			return fmt.Errorf("list sessions for forced logout: %w", err)
		}
		for _, session := range active {
			if _, err := m.sessions.Terminate(ctx, session.Token, "forced_logout: "+string(event.Type)); err != nil {
				return fmt.Errorf("force logout session %s: %w", session.ID, err)
			}
		}

	case domain.ActionQuarantineSession:
		token := evidenceString(event.Evidence, "session_token")
		if m.sessions == nil || token == "" {
			return nil
		}
		if _, err := m.sessions.Quarantine(ctx, token, string(event.Type)); err != nil {
			return fmt.Errorf("quarantine session: %w", err)
		}

	case domain.ActionSuspendUser:
		// User records belong to an external collaborator; the suspension
		// request is surfaced through the audit trail.
		if event.UserID == nil {
			return nil
		}
		m.recordAudit(ctx, auditsvc.RecordInput{
			EventType:   domain.AuditEventSecurity,
			Severity:    domain.SeverityCritical,
			Actor:       domain.Actor{UserID: *event.UserID},
			Resource:    domain.ResourceRef{Type: "user", ID: event.UserID.String()},
			Action:      "threat.suspend_user",
			Description: "user suspension requested: " + string(event.Type),
		})

	case domain.ActionRequire2FA:
		if event.UserID == nil {
			return nil
		}
		m.recordAudit(ctx, auditsvc.RecordInput{
			EventType:   domain.AuditEventSecurity,
			Severity:    domain.SeverityWarning,
			Actor:       domain.Actor{UserID: *event.UserID},
			Resource:    domain.ResourceRef{Type: "user", ID: event.UserID.String()},
			Action:      "threat.require_2fa",
			Description: "step-up authentication required: " + string(event.Type),
		})

	case domain.ActionAlert:
		if m.alerts == nil {
			return nil
		}
		m.alerts.Notify(ctx, event)

	case domain.ActionLog:
		m.log.WarnContext(ctx, "security event",
			slog.String("event_id", event.ID.String()),
			slog.String("type", event.Type.String()),
			slog.String("description", event.Description))

	default:
		return fmt.Errorf("unknown response action %q", action)
	}
	return nil
}

func evidenceString(evidence map[string]any, key string) string {
	if evidence == nil {
		return ""
	}
	s, _ := evidence[key].(string)
	return s
}
