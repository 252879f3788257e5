// Package audit implements the audit trail recorder: append-only,
// checksummed records of every security-relevant action in the system.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/config"
	"github.com/medovate/clinic-backend/internal/domain"
)

// auditStore defines the audit repository interface needed by the service.
type auditStore interface {
	Create(ctx context.Context, record *domain.AuditRecord) (*domain.AuditRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditRecord, error)
	Search(ctx context.Context, filter domain.AuditFilter, limit, offset int) ([]*domain.AuditRecord, int, error)
	ActorActivity(ctx context.Context, actorID uuid.UUID, since time.Time) (*domain.ActorActivitySummary, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Service implements audit trail operations.
type Service struct {
	log   *slog.Logger
	store auditStore
	cfg   config.AuditConfig

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates a new audit service instance.
func NewService(logger *slog.Logger, store auditStore, cfg config.AuditConfig) *Service {
	return &Service{
		log:   logger.With("service", "audit"),
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}
