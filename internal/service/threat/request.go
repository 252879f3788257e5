package threat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
)

const rateWindow = time.Minute

// RequestInput is the request context the middleware hands to the monitor.
type RequestInput struct {
	SourceID     string
	Endpoint     string
	Method       string
	UserID       *uuid.UUID
	SessionToken string
	Payload      string
}

// OnRequest analyzes one inbound request: rolling per-source rate over the
// last minute, then payload signature scanning. Multiple rules can fire on
// the same request; each raises its own event.
func (m *Monitor) OnRequest(ctx context.Context, input RequestInput) ([]*domain.SecurityEvent, error) {
	if input.SourceID == "" {
		return nil, domain.NewValidationError("source_id", "source id is required")
	}
	now := m.now().UTC()

	if m.state.isBlocked(input.SourceID, now) {
		return nil, fmt.Errorf("source %s: %w", input.SourceID, domain.ErrSourceBlocked)
	}

	var events []*domain.SecurityEvent

	count := m.state.requestWindow(input.SourceID).add(now, rateWindow)
	if count > m.cfg.RateLimitPerMinute && !m.state.isThrottled(input.SourceID, now) {
		events = append(events, m.raise(ctx, domain.ThreatRateLimitExceeded, domain.LevelMedium,
			input.SourceID, input.UserID,
			fmt.Sprintf("%d requests within %s", count, rateWindow),
			map[string]any{
				"request_count": count,
				"limit":         m.cfg.RateLimitPerMinute,
				"endpoint":      input.Endpoint,
				"session_token": input.SessionToken,
			},
			[]domain.ResponseAction{domain.ActionRateLimit, domain.ActionBlockSource},
		))
	}

	for _, match := range scanPayload(input.Payload) {
		events = append(events, m.raise(ctx, match.family.threat, match.family.level,
			input.SourceID, input.UserID,
			fmt.Sprintf("payload matched %s signature %q on %s %s",
				match.family.threat, match.matched, input.Method, input.Endpoint),
			map[string]any{
				"signature":     match.matched,
				"endpoint":      input.Endpoint,
				"method":        input.Method,
				"session_token": input.SessionToken,
			},
			[]domain.ResponseAction{domain.ActionBlockSource, domain.ActionAlert},
		))
	}

	// Requests against protected record endpoints additionally feed the
	// data-access rules (off-hours detection, exfiltration profiling).
	if input.UserID != nil {
		if resource, ok := m.sensitiveResource(input.Endpoint); ok {
			accessEvents, err := m.OnDataAccess(ctx, DataAccessInput{
				UserID:       *input.UserID,
				Resource:     resource,
				Operation:    strings.ToLower(input.Method),
				RecordCount:  1,
				SourceID:     input.SourceID,
				SessionToken: input.SessionToken,
			})
			if err != nil {
				return events, fmt.Errorf("data access check for %s: %w", input.Endpoint, err)
			}
			events = append(events, accessEvents...)
		}
	}

	return events, nil
}

// sensitiveResource matches the request path against the configured
// sensitive prefixes and returns the resource name the prefix stands for.
func (m *Monitor) sensitiveResource(endpoint string) (string, bool) {
	for _, prefix := range m.sensitivePrefixes {
		if endpoint == prefix || strings.HasPrefix(endpoint, prefix+"/") {
			return strings.TrimPrefix(prefix, "/"), true
		}
	}
	return "", false
}
