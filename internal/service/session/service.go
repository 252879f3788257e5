// Package session implements the session manager: creation with
// concurrency caps, validation with lazy expiry, soft termination, and
// the activity log behind every authenticated request.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/config"
	"github.com/medovate/clinic-backend/internal/domain"
	auditsvc "github.com/medovate/clinic-backend/internal/service/audit"
)

// sessionStore defines the session repository interface needed by the service.
type sessionStore interface {
	Create(ctx context.Context, session *domain.Session) (*domain.Session, error)
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	GetByRefreshTokenHash(ctx context.Context, hash string) (*domain.Session, error)
	GetByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Session, int, error)
	GetActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)
	Touch(ctx context.Context, sessionID uuid.UUID, at time.Time) error
	Terminate(ctx context.Context, sessionID uuid.UUID, to domain.SessionStatus, reason string, at time.Time) (*domain.Session, error)
	ExpireBefore(ctx context.Context, now time.Time) (int, error)
	IdleBefore(ctx context.Context, now, cutoff time.Time) (int, error)
	RecentCountries(ctx context.Context, userID uuid.UUID, since time.Time) ([]string, error)
	RecentFingerprints(ctx context.Context, userID uuid.UUID, since time.Time) ([]string, error)
	AddActivity(ctx context.Context, activity *domain.SessionActivity) error
	ListActivity(ctx context.Context, sessionID uuid.UUID, limit int) ([]*domain.SessionActivity, error)
}

// sessionCache defines the fast-path cache interface. All methods are
// best-effort; failures degrade to the store.
type sessionCache interface {
	Get(ctx context.Context, token string) (*domain.Session, error)
	Set(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, token string) error
}

// geoResolver resolves the geographic origin of an IP, best effort.
type geoResolver interface {
	Lookup(ctx context.Context, ip string) (*domain.GeoInfo, error)
}

// auditRecorder records security-relevant session events.
type auditRecorder interface {
	Record(ctx context.Context, input auditsvc.RecordInput) (*domain.AuditRecord, error)
}

// txRunner executes a function inside a storage transaction.
type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements session lifecycle operations.
type Service struct {
	log   *slog.Logger
	store sessionStore
	cache sessionCache
	geo   geoResolver
	audit auditRecorder
	tx    txRunner
	cfg   config.SessionConfig

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates a new session service instance. cache, geo, and tx may
// be nil: validation then always hits the store, sessions carry no geo info,
// and creation runs without a transaction.
func NewService(
	logger *slog.Logger,
	store sessionStore,
	cache sessionCache,
	geo geoResolver,
	audit auditRecorder,
	tx txRunner,
	cfg config.SessionConfig,
) *Service {
	return &Service{
		log:   logger.With("service", "session"),
		store: store,
		cache: cache,
		geo:   geo,
		audit: audit,
		tx:    tx,
		cfg:   cfg,
		now:   time.Now,
	}
}

// runInTx executes fn transactionally when a tx runner is configured.
func (s *Service) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.RunInTx(ctx, fn)
}

// cacheSet stores a session in the cache, logging failures at debug.
func (s *Service) cacheSet(ctx context.Context, session *domain.Session) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, session); err != nil {
		s.log.DebugContext(ctx, "session cache set failed",
			slog.String("session_id", session.ID.String()),
			slog.String("error", err.Error()))
	}
}

// cacheEvict removes a session from the cache, logging failures at debug.
func (s *Service) cacheEvict(ctx context.Context, token string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, token); err != nil {
		s.log.DebugContext(ctx, "session cache evict failed",
			slog.String("error", err.Error()))
	}
}

// addActivity appends a session activity entry. Activity logging is
// best-effort: a failure is logged and the caller's path continues.
func (s *Service) addActivity(ctx context.Context, session *domain.Session, activityType domain.SessionActivityType, reqCtx *domain.RequestContext) {
	activity := &domain.SessionActivity{
		ID:        uuid.New(),
		SessionID: session.ID,
		UserID:    session.UserID,
		Type:      activityType,
		CreatedAt: s.now().UTC(),
	}
	if reqCtx != nil {
		activity.Endpoint = reqCtx.Endpoint
		activity.Method = reqCtx.Method
		activity.StatusCode = reqCtx.StatusCode
		activity.DurationMs = reqCtx.LatencyMs
	}

	if err := s.store.AddActivity(ctx, activity); err != nil {
		s.log.WarnContext(ctx, "session activity write failed",
			slog.String("session_id", session.ID.String()),
			slog.String("type", activityType.String()),
			slog.String("error", err.Error()))
	}
}
