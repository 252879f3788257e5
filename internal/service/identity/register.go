package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medovate/clinic-backend/internal/domain"
	auditsvc "github.com/medovate/clinic-backend/internal/service/audit"
)

// RegisterInput holds parameters for creating a staff account.
type RegisterInput struct {
	Email    string
	Name     string
	Role     domain.Role
	Phone    string
	Password string
}

// Validate validates the register input.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError

	if i.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	} else if !strings.Contains(i.Email, "@") {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid email"})
	}
	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if !i.Role.IsValid() || i.Role == domain.RoleGuest {
		errs = append(errs, domain.FieldError{Field: "role", Message: "invalid role"})
	}
	if len(i.Password) < 12 {
		errs = append(errs, domain.FieldError{Field: "password", Message: "minimum 12 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Register creates a new staff account with a bcrypt-hashed credential.
// Returns ErrAlreadyExists if the email is already taken.
func (s *Service) Register(ctx context.Context, actor domain.Actor, input RegisterInput) (*domain.StaffMember, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("identity.Register hash password: %w", err)
	}

	now := s.now().UTC()
	member, err := s.staff.Create(ctx, &domain.StaffMember{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		Role:         input.Role,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(input.Phone),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("identity.Register: %w", domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("identity.Register: %w", err)
	}

	s.recordAudit(ctx, auditsvc.RecordInput{
		EventType: domain.AuditEventCreate,
		Severity:  domain.SeverityInfo,
		Actor:     actor,
		Resource:  domain.ResourceRef{Type: "staff_member", ID: member.ID.String()},
		Action:    "staff.register",
		After:     map[string]any{"email": member.Email, "role": member.Role.String()},
		Sensitive: true,
	})

	return member, nil
}

// Deactivate disables sign-in for a staff account.
func (s *Service) Deactivate(ctx context.Context, actor domain.Actor, id uuid.UUID, reason string) error {
	if err := s.staff.SetActive(ctx, id, false, s.now().UTC()); err != nil {
		return fmt.Errorf("identity.Deactivate: %w", err)
	}

	s.recordAudit(ctx, auditsvc.RecordInput{
		EventType:   domain.AuditEventUpdate,
		Severity:    domain.SeverityWarning,
		Actor:       actor,
		Resource:    domain.ResourceRef{Type: "staff_member", ID: id.String()},
		Action:      "staff.deactivate",
		Description: reason,
	})

	return nil
}

// ChangePassword replaces a member's credential after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	if len(newPassword) < 12 {
		return domain.NewValidationError("password", "minimum 12 characters")
	}

	member, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("identity.ChangePassword: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.ErrUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.PasswordHashCost)
	if err != nil {
		return fmt.Errorf("identity.ChangePassword hash password: %w", err)
	}
	if err := s.staff.SetPasswordHash(ctx, id, string(hash), s.now().UTC()); err != nil {
		return fmt.Errorf("identity.ChangePassword: %w", err)
	}

	s.recordAudit(ctx, auditsvc.RecordInput{
		EventType: domain.AuditEventUpdate,
		Severity:  domain.SeverityInfo,
		Actor:     domain.Actor{UserID: id, UserName: member.Name, Role: member.Role},
		Resource:  domain.ResourceRef{Type: "staff_member", ID: id.String()},
		Action:    "staff.change_password",
		Sensitive: true,
	})

	return nil
}
