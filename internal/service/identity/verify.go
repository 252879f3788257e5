package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medovate/clinic-backend/internal/domain"
)

// Verify checks an email + password pair against the staff directory.
// Every failure mode collapses to ErrUnauthorized so a caller cannot tell
// unknown accounts, wrong passwords, and deactivated accounts apart.
func (s *Service) Verify(ctx context.Context, email, password string) (*domain.StaffMember, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrUnauthorized
	}

	member, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("identity.Verify get staff: %w", err)
	}

	if !member.Active {
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	return member, nil
}

// GetByID returns a staff member by primary key.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.StaffMember, error) {
	member, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("identity.GetByID: %w", err)
	}
	return member, nil
}
