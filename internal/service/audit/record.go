package audit

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
)

const redactedPlaceholder = "[REDACTED]"

// RecordInput carries everything a caller knows about an audited action.
type RecordInput struct {
	EventType   domain.AuditEventType
	Severity    domain.AuditSeverity
	Actor       domain.Actor
	SessionID   *uuid.UUID
	Resource    domain.ResourceRef
	Action      string
	Description string
	Before      map[string]any
	After       map[string]any
	Context     domain.RequestContext
	Sensitive   bool
}

// Record builds, checksums, and persists an audit record.
//
// A store failure is logged at Error and NOT returned: audit recording must
// never fail the caller's operation. The returned record is always the one
// that was attempted, checksum included, so callers can still surface it.
func (s *Service) Record(ctx context.Context, input RecordInput) (*domain.AuditRecord, error) {
	if !input.EventType.IsValid() {
		return nil, domain.NewValidationError("event_type", "unknown audit event type "+string(input.EventType))
	}
	if input.Action == "" {
		return nil, domain.NewValidationError("action", "action is required")
	}
	if !input.Severity.IsValid() {
		input.Severity = domain.SeverityInfo
	}

	record := &domain.AuditRecord{
		ID:            uuid.New(),
		EventType:     input.EventType,
		Severity:      input.Severity,
		Actor:         input.Actor,
		SessionID:     input.SessionID,
		Resource:      input.Resource,
		Action:        input.Action,
		Description:   truncate(input.Description, s.cfg.MaxDescriptionLen),
		Before:        s.redact(input.Before),
		After:         s.redact(input.After),
		Context:       input.Context,
		Sensitive:     input.Sensitive,
		RetentionDays: s.cfg.RetentionDays,
		CreatedAt:     s.now().UTC().Truncate(time.Microsecond),
	}
	record.Checksum = record.ComputeChecksum()

	if _, err := s.store.Create(ctx, record); err != nil {
		s.log.ErrorContext(ctx, "audit record persist failed",
			slog.String("record_id", record.ID.String()),
			slog.String("event_type", record.EventType.String()),
			slog.String("actor_id", record.Actor.UserID.String()),
			slog.String("error", err.Error()),
		)
		return record, nil
	}

	return record, nil
}

// redact returns a copy of values with configured sensitive keys replaced.
// Matching is by lowercase substring, so "user_password" and "PasswordHash"
// both hit the "password" pattern.
func (s *Service) redact(values map[string]any) map[string]any {
	if len(values) == 0 {
		return nil
	}
	if s.cfg.AllowRawValues {
		return cloneValues(values)
	}

	patterns := s.cfg.RedactKeys()
	out := make(map[string]any, len(values))
	for key, value := range values {
		if matchesAny(strings.ToLower(key), patterns) {
			out[key] = redactedPlaceholder
			continue
		}
		out[key] = value
	}
	return out
}

func matchesAny(key string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(key, p) {
			return true
		}
	}
	return false
}

func cloneValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

// truncate caps s at max runes, appending an ellipsis marker when cut.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	// The marker fits inside the budget so the stored value never exceeds max.
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
