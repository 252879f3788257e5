package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/medovate/clinic-backend/internal/auth"
	"github.com/medovate/clinic-backend/internal/domain"
)

// Refresh resolves a raw refresh token back to its live session so the
// transport can mint a new access token. The refresh token itself is not
// rotated; it lives and dies with the session.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("empty refresh token: %w", domain.ErrUnauthorized)
	}
	now := s.now().UTC()

	session, err := s.store.GetByRefreshTokenHash(ctx, auth.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("unknown refresh token: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("load session by refresh token: %w", err)
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

	if err := s.store.Touch(ctx, session.ID, now); err != nil {
		return nil, fmt.Errorf("touch session %s: %w", session.ID, err)
	}
	session.LastActivityAt = now
	s.cacheSet(ctx, session)

	return session, nil
}
