package session

import (
	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
)

// CreateInput carries everything needed to establish a session after the
// caller has already authenticated the user.
type CreateInput struct {
	UserID      uuid.UUID
	IP          string
	UserAgent   string
	LoginMethod domain.LoginMethod
}

func (in CreateInput) validate() error {
	if in.UserID == uuid.Nil {
		return domain.NewValidationError("user_id", "user id is required")
	}
	if in.IP == "" {
		return domain.NewValidationError("ip", "source ip is required")
	}
	if !in.LoginMethod.IsValid() {
		return domain.NewValidationError("login_method", "unknown login method "+string(in.LoginMethod))
	}
	return nil
}

// ListInput pages through a user's session history, newest first.
type ListInput struct {
	UserID uuid.UUID
	Limit  int
	Offset int
}
