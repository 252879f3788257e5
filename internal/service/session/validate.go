package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/medovate/clinic-backend/internal/domain"
)

// Validate checks a session token against the lifecycle rules and, when the
// session is live, bumps its activity clock and appends a request entry.
//
// The cache is consulted first; any cache failure degrades to the store.
// Expiry and idle timeout are applied lazily here: a session past either
// limit is transitioned to its terminal state as a side effect of the
// validation that discovered it.
func (s *Service) Validate(ctx context.Context, token string, reqCtx *domain.RequestContext) (*domain.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("empty session token: %w", domain.ErrUnauthorized)
	}
	now := s.now().UTC()

	session, err := s.lookup(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("unknown session token: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	switch {
	case session.Status == domain.SessionBlocked:
		return nil, fmt.Errorf("session %s: %w", session.ID, domain.ErrSessionBlocked)
	case session.Status.IsTerminal():
		return nil, fmt.Errorf("session %s is %s: %w", session.ID, session.Status, domain.ErrUnauthorized)
	}

	if session.ExpiredAt(now) {
		s.transition(ctx, session, domain.SessionExpired, "lifetime_exceeded", now)
		return nil, fmt.Errorf("session %s: %w", session.ID, domain.ErrSessionExpired)
	}
	if session.IdleAt(now, s.cfg.IdleTimeout) {
		s.transition(ctx, session, domain.SessionInactive, "idle_timeout", now)
		return nil, fmt.Errorf("session %s idle: %w", session.ID, domain.ErrSessionExpired)
	}

	if err := s.store.Touch(ctx, session.ID, now); err != nil {
		return nil, fmt.Errorf("touch session %s: %w", session.ID, err)
	}
	session.LastActivityAt = now
	s.cacheSet(ctx, session)
	s.addActivity(ctx, session, domain.ActivityRequest, reqCtx)

	return session, nil
}

// lookup fetches a session by token, cache first.
func (s *Service) lookup(ctx context.Context, token string) (*domain.Session, error) {
	if s.cache != nil {
		session, err := s.cache.Get(ctx, token)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "session cache degraded, falling back to store",
				slog.String("error", err.Error()))
		}
	}
	return s.store.GetByToken(ctx, token)
}

// transition moves a live session into a terminal state, best effort: a
// session already terminated by a concurrent request is left as is.
func (s *Service) transition(ctx context.Context, session *domain.Session, to domain.SessionStatus, reason string, now time.Time) {
	terminated, err := s.store.Terminate(ctx, session.ID, to, reason, now)
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			s.log.ErrorContext(ctx, "session transition failed",
				slog.String("session_id", session.ID.String()),
				slog.String("to", to.String()),
				slog.String("error", err.Error()))
		}
		s.cacheEvict(ctx, session.Token)
		return
	}

	s.cacheEvict(ctx, terminated.Token)
	s.addActivity(ctx, terminated, activityFor(to), nil)
}

func activityFor(to domain.SessionStatus) domain.SessionActivityType {
	switch to {
	case domain.SessionBlocked:
		return domain.ActivityBlocked
	case domain.SessionExpired:
		return domain.ActivityExpired
	case domain.SessionInactive:
		return domain.ActivityIdleTimeout
	default:
		return domain.ActivityTerminated
	}
}
