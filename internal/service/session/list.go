package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	defaultActivityLimit = 50
)

// ListActive returns the user's live sessions, least recently active first.
func (s *Service) ListActive(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	sessions, err := s.store.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active sessions for user %s: %w", userID, err)
	}
	return sessions, nil
}

// List pages through a user's full session history, terminated sessions
// included, newest first.
func (s *Service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	if input.UserID == uuid.Nil {
		return nil, domain.NewValidationError("user_id", "user id is required")
	}
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}
	if input.Limit > maxListLimit {
		input.Limit = maxListLimit
	}
	if input.Offset < 0 {
		input.Offset = 0
	}

	sessions, total, err := s.store.GetByUser(ctx, input.UserID, input.Limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions for user %s: %w", input.UserID, err)
	}
	return &ListResult{
		Sessions: sessions,
		Total:    total,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}, nil
}

// ListActivity returns the newest activity entries of a session.
func (s *Service) ListActivity(ctx context.Context, sessionID uuid.UUID, limit int) ([]*domain.SessionActivity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	activity, err := s.store.ListActivity(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity for session %s: %w", sessionID, err)
	}
	return activity, nil
}
