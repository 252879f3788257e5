package session

import (
	"context"

	"github.com/medovate/clinic-backend/internal/domain"
)

// Quarantine blocks a session pending investigation. It rides the same
// terminal transition as Block; the recorded reason keeps the two apart, so
// a quarantined session is distinguishable from one blocked outright or
// logged out. Quarantining an already-terminal session returns ErrConflict.
func (s *Service) Quarantine(ctx context.Context, token, reason string) (*domain.Session, error) {
	if reason == "" {
		return nil, domain.NewValidationError("reason", "quarantine reason is required")
	}
	return s.terminate(ctx, token, domain.SessionBlocked, "quarantine: "+reason)
}
