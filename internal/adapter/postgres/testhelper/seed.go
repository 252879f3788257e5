package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medovate/clinic-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedSession inserts an active session for the given user and returns it.
// Token and refresh hash are unique per call so parallel tests never collide.
func SeedSession(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) *domain.Session {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	session := &domain.Session{
		ID:             uuid.New(),
		UserID:         userID,
		Token:          "tok-" + suffix + "-" + uuid.NewString(),
		RefreshToken:   "refresh-hash-" + suffix + "-" + uuid.NewString(),
		IP:             "203.0.113.10",
		UserAgent:      "Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0",
		Device:         "desktop",
		Browser:        "Firefox",
		OS:             "Linux",
		Fingerprint:    "fp-" + suffix,
		Status:         domain.SessionActive,
		LoginMethod:    domain.LoginPassword,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(12 * time.Hour),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, token, refresh_token_hash, ip, user_agent, device, browser, os,
		                       fingerprint, status, login_method, created_at, last_activity_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		session.ID, session.UserID, session.Token, session.RefreshToken, session.IP,
		session.UserAgent, session.Device, session.Browser, session.OS, session.Fingerprint,
		string(session.Status), string(session.LoginMethod),
		session.CreatedAt, session.LastActivityAt, session.ExpiresAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSession insert session: %v", err)
	}

	return session
}

// SeedAuditRecord inserts an audit record for the given actor and returns it.
// The checksum is computed over the canonical fields before insert.
func SeedAuditRecord(t *testing.T, pool *pgxpool.Pool, actorID uuid.UUID, eventType domain.AuditEventType, createdAt time.Time) *domain.AuditRecord {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	record := &domain.AuditRecord{
		ID:        uuid.New(),
		EventType: eventType,
		Severity:  domain.SeverityInfo,
		Actor: domain.Actor{
			UserID:   actorID,
			UserName: "Test Actor " + suffix,
			Role:     domain.RoleDoctor,
		},
		Resource: domain.ResourceRef{
			Type: "patient",
			ID:   uuid.NewString(),
		},
		Action:        string(eventType),
		Description:   "seeded record " + suffix,
		RetentionDays: 2555,
		CreatedAt:     createdAt.UTC().Truncate(time.Microsecond),
	}
	record.Checksum = record.ComputeChecksum()

	_, err := pool.Exec(ctx,
		`INSERT INTO audit_records (id, event_type, severity, actor_id, actor_name, actor_role,
		                            resource_type, resource_id, action, description,
		                            retention_days, checksum, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		record.ID, string(record.EventType), string(record.Severity),
		record.Actor.UserID, record.Actor.UserName, string(record.Actor.Role),
		record.Resource.Type, record.Resource.ID, record.Action, record.Description,
		record.RetentionDays, record.Checksum, record.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAuditRecord insert record: %v", err)
	}

	return record
}
