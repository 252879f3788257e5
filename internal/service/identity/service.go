// Package identity implements staff credential management: password
// verification for login, account registration, and deactivation.
// Session issuance is the session manager's job; this service only answers
// "who is this and may they sign in".
package identity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/config"
	"github.com/medovate/clinic-backend/internal/domain"
	auditsvc "github.com/medovate/clinic-backend/internal/service/audit"
)

// staffStore defines the staff repository interface needed by the service.
type staffStore interface {
	Create(ctx context.Context, member *domain.StaffMember) (*domain.StaffMember, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StaffMember, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool, at time.Time) error
	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string, at time.Time) error
}

// auditRecorder records account-level changes.
type auditRecorder interface {
	Record(ctx context.Context, input auditsvc.RecordInput) (*domain.AuditRecord, error)
}

// Service implements staff identity operations.
type Service struct {
	log   *slog.Logger
	staff staffStore
	audit auditRecorder
	cfg   config.AuthConfig
	now   func() time.Time
}

// NewService creates a new identity service instance.
func NewService(logger *slog.Logger, staff staffStore, audit auditRecorder, cfg config.AuthConfig) *Service {
	return &Service{
		log:   logger.With("service", "identity"),
		staff: staff,
		audit: audit,
		cfg:   cfg,
		now:   time.Now,
	}
}

// recordAudit is best-effort: a rejected input is logged, never propagated.
func (s *Service) recordAudit(ctx context.Context, input auditsvc.RecordInput) {
	if s.audit == nil {
		return
	}
	if _, err := s.audit.Record(ctx, input); err != nil {
		s.log.ErrorContext(ctx, "audit record rejected", slog.String("error", err.Error()))
	}
}
