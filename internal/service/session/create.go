package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/auth"
	"github.com/medovate/clinic-backend/internal/domain"
	auditsvc "github.com/medovate/clinic-backend/internal/service/audit"
)

const evictionReason = "max_sessions_exceeded"

// Create establishes a new session for an already-authenticated user.
//
// When the user is at the concurrent-session cap, the least-recently-active
// session is evicted first. The new session starts suspicious instead of
// active when the user has history in the lookback window and the login
// arrives from an unseen country or an unseen device fingerprint.
func (s *Service) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	now := s.now().UTC()

	token, _, err := auth.GenerateOpaqueToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	refreshRaw, refreshHash, err := auth.GenerateOpaqueToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	ua := parseUserAgent(input.UserAgent)
	session := &domain.Session{
		ID:             uuid.New(),
		UserID:         input.UserID,
		Token:          token,
		RefreshToken:   refreshHash,
		IP:             input.IP,
		UserAgent:      input.UserAgent,
		Device:         ua.Device,
		Browser:        ua.Browser,
		OS:             ua.OS,
		Fingerprint:    fingerprint(input.IP, input.UserAgent),
		Status:         domain.SessionActive,
		LoginMethod:    input.LoginMethod,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(s.cfg.Lifetime),
	}

	session.Geo = s.resolveGeo(ctx, input.IP)

	suspicious, why := s.isSuspicious(ctx, session, now)
	if suspicious {
		session.Status = domain.SessionSuspicious
	}

	// Cap enforcement and the insert run in one transaction so a burst of
	// concurrent logins cannot overshoot the per-user limit.
	var created *domain.Session
	err = s.runInTx(ctx, func(ctx context.Context) error {
		if err := s.evictOverCap(ctx, input.UserID, now); err != nil {
			return err
		}
		c, err := s.store.Create(ctx, session)
		if err != nil {
			return fmt.Errorf("create session for user %s: %w", input.UserID, err)
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, created)
	s.addActivity(ctx, created, domain.ActivityLogin, nil)

	severity := domain.SeverityInfo
	description := "session established"
	if suspicious {
		severity = domain.SeverityWarning
		description = "session established, flagged suspicious: " + why
		s.log.WarnContext(ctx, "suspicious login",
			slog.String("user_id", input.UserID.String()),
			slog.String("session_id", created.ID.String()),
			slog.String("reason", why))
	}
	s.recordAudit(ctx, auditsvc.RecordInput{
		EventType:   domain.AuditEventLogin,
		Severity:    severity,
		Actor:       domain.Actor{UserID: input.UserID},
		SessionID:   &created.ID,
		Resource:    domain.ResourceRef{Type: "session", ID: created.ID.String()},
		Action:      "session.create",
		Description: description,
		After: map[string]any{
			"ip":           created.IP,
			"device":       created.Device,
			"login_method": created.LoginMethod.String(),
		},
	})

	return &CreateResult{Session: created, Token: token, RefreshToken: refreshRaw}, nil
}

// evictOverCap terminates least-recently-active sessions until the user is
// below the configured cap.
func (s *Service) evictOverCap(ctx context.Context, userID uuid.UUID, now time.Time) error {
	if s.cfg.MaxPerUser <= 0 {
		return nil
	}

	active, err := s.store.GetActiveByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("count active sessions for user %s: %w", userID, err)
	}
	if len(active) < s.cfg.MaxPerUser {
		return nil
	}

	// active is ordered least-recently-active first.
	for _, victim := range active[:len(active)-s.cfg.MaxPerUser+1] {
		evicted, err := s.store.Terminate(ctx, victim.ID, domain.SessionLoggedOut, evictionReason, now)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			return fmt.Errorf("evict session %s: %w", victim.ID, err)
		}

		s.cacheEvict(ctx, evicted.Token)
		s.addActivity(ctx, evicted, domain.ActivityEvicted, nil)
		s.recordAudit(ctx, auditsvc.RecordInput{
			EventType:   domain.AuditEventLogout,
			Severity:    domain.SeverityInfo,
			Actor:       domain.Actor{UserID: userID},
			SessionID:   &evicted.ID,
			Resource:    domain.ResourceRef{Type: "session", ID: evicted.ID.String()},
			Action:      "session.evict",
			Description: "session evicted: concurrent session limit reached",
		})

		s.log.InfoContext(ctx, "session evicted",
			slog.String("user_id", userID.String()),
			slog.String("session_id", evicted.ID.String()))
	}
	return nil
}

// resolveGeo looks up the session origin. Resolution is best-effort: any
// failure leaves the session without geo info.
func (s *Service) resolveGeo(ctx context.Context, ip string) *domain.GeoInfo {
	if s.geo == nil {
		return nil
	}
	geo, err := s.geo.Lookup(ctx, ip)
	if err != nil {
		s.log.DebugContext(ctx, "geo lookup failed",
			slog.String("ip", ip),
			slog.String("error", err.Error()))
		return nil
	}
	return geo
}

// isSuspicious compares the new session against the user's recent history.
// A user with no history is never suspicious.
func (s *Service) isSuspicious(ctx context.Context, session *domain.Session, now time.Time) (bool, string) {
	since := now.Add(-s.cfg.HistoryWindow)

	fingerprints, err := s.store.RecentFingerprints(ctx, session.UserID, since)
	if err != nil {
		s.log.WarnContext(ctx, "recent fingerprint lookup failed",
			slog.String("user_id", session.UserID.String()),
			slog.String("error", err.Error()))
		return false, ""
	}
	if len(fingerprints) == 0 {
		return false, ""
	}

	if session.Geo != nil {
		countries, err := s.store.RecentCountries(ctx, session.UserID, since)
		if err != nil {
			s.log.WarnContext(ctx, "recent country lookup failed",
				slog.String("user_id", session.UserID.String()),
				slog.String("error", err.Error()))
		} else if len(countries) > 0 && !slices.Contains(countries, session.Geo.Country) {
			return true, "login from unseen country " + session.Geo.Country
		}
	}

	if !slices.Contains(fingerprints, session.Fingerprint) {
		return true, "login from unseen device fingerprint"
	}
	return false, ""
}

// recordAudit writes an audit record. The audit service already swallows
// store failures; validation failures here mean a programming error and are
// logged.
func (s *Service) recordAudit(ctx context.Context, input auditsvc.RecordInput) {
	if s.audit == nil {
		return
	}
	if _, err := s.audit.Record(ctx, input); err != nil {
		s.log.ErrorContext(ctx, "audit record rejected",
			slog.String("action", input.Action),
			slog.String("error", err.Error()))
	}
}

// fingerprint derives a stable device identifier from the request origin.
func fingerprint(ip, userAgent string) string {
	sum := sha256.Sum256([]byte(ip + "|" + userAgent))
	return hex.EncodeToString(sum[:])[:32]
}
