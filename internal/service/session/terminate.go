package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/medovate/clinic-backend/internal/domain"
	auditsvc "github.com/medovate/clinic-backend/internal/service/audit"
)

// Terminate logs a session out. A session that is already in a terminal
// state is reported as ErrConflict; a blocked session in particular stays
// blocked.
func (s *Service) Terminate(ctx context.Context, token, reason string) (*domain.Session, error) {
	return s.terminate(ctx, token, domain.SessionLoggedOut, reason)
}

// Block force-terminates a session as a security response. Blocked sessions
// can never be revalidated.
func (s *Service) Block(ctx context.Context, token, reason string) (*domain.Session, error) {
	return s.terminate(ctx, token, domain.SessionBlocked, reason)
}

func (s *Service) terminate(ctx context.Context, token string, to domain.SessionStatus, reason string) (*domain.Session, error) {
	if reason == "" {
		return nil, domain.NewValidationError("reason", "termination reason is required")
	}
	now := s.now().UTC()

	session, err := s.store.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("unknown session token: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.Status.IsTerminal() {
		return nil, fmt.Errorf("session %s already %s: %w", session.ID, session.Status, domain.ErrConflict)
	}

	terminated, err := s.store.Terminate(ctx, session.ID, to, reason, now)
	if err != nil {
		return nil, fmt.Errorf("terminate session %s: %w", session.ID, err)
	}

	s.cacheEvict(ctx, terminated.Token)
	s.addActivity(ctx, terminated, activityFor(to), nil)

	eventType := domain.AuditEventLogout
	severity := domain.SeverityInfo
	action := "session.terminate"
	if to == domain.SessionBlocked {
		eventType = domain.AuditEventSecurity
		severity = domain.SeverityWarning
		action = "session.block"
	}
	s.recordAudit(ctx, auditsvc.RecordInput{
		EventType:   eventType,
		Severity:    severity,
		Actor:       domain.Actor{UserID: terminated.UserID},
		SessionID:   &terminated.ID,
		Resource:    domain.ResourceRef{Type: "session", ID: terminated.ID.String()},
		Action:      action,
		Description: "session " + to.String() + ": " + reason,
	})

	return terminated, nil
}
