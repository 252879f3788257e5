// Package session implements the Session repository using PostgreSQL.
// Sessions are soft-terminated: status moves to a terminal value via a
// guarded UPDATE, rows are never deleted. All queries use raw SQL.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/medovate/clinic-backend/internal/adapter/postgres"
	"github.com/medovate/clinic-backend/internal/domain"
)

// Repo provides session persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new session repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const sessionColumns = `id, user_id, token, refresh_token_hash, ip, user_agent, device, browser, os,
fingerprint, geo_country, geo_city, status, login_method, created_at, last_activity_at,
expires_at, terminated_at, termination_reason`

const createSQL = `
INSERT INTO sessions (` + sessionColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
RETURNING ` + sessionColumns

const getByTokenSQL = `
SELECT ` + sessionColumns + `
FROM sessions
WHERE token = $1`

const getByRefreshHashSQL = `
SELECT ` + sessionColumns + `
FROM sessions
WHERE refresh_token_hash = $1`

const getByUserSQL = `
SELECT ` + sessionColumns + `
FROM sessions
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

const countByUserSQL = `
SELECT count(*) FROM sessions WHERE user_id = $1`

const getActiveByUserSQL = `
SELECT ` + sessionColumns + `
FROM sessions
WHERE user_id = $1 AND status IN ('active', 'suspicious')
ORDER BY last_activity_at ASC`

const touchSQL = `
UPDATE sessions
SET last_activity_at = $2
WHERE id = $1 AND status IN ('active', 'suspicious')`

// terminateSQL only fires on live sessions, so a blocked session can
// never be resurrected or re-terminated with a different reason.
const terminateSQL = `
UPDATE sessions
SET status = $2, terminated_at = $3, termination_reason = $4
WHERE id = $1 AND status IN ('active', 'suspicious')
RETURNING ` + sessionColumns

const expireBeforeSQL = `
UPDATE sessions
SET status = 'expired', terminated_at = $1, termination_reason = 'lifetime_exceeded'
WHERE status IN ('active', 'suspicious') AND expires_at <= $1`

const idleBeforeSQL = `
UPDATE sessions
SET status = 'inactive', terminated_at = $1, termination_reason = 'idle_timeout'
WHERE status IN ('active', 'suspicious') AND last_activity_at < $2`

const recentCountriesSQL = `
SELECT DISTINCT geo_country
FROM sessions
WHERE user_id = $1 AND geo_country IS NOT NULL AND created_at >= $2`

const recentFingerprintsSQL = `
SELECT DISTINCT fingerprint
FROM sessions
WHERE user_id = $1 AND fingerprint <> '' AND created_at >= $2`

const addActivitySQL = `
INSERT INTO session_activity (id, session_id, user_id, activity_type, endpoint, method, status_code, duration_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const listActivitySQL = `
SELECT id, session_id, user_id, activity_type, endpoint, method, status_code, duration_ms, created_at
FROM session_activity
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new session and returns the persisted domain.Session.
// A duplicate token results in domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		session.ID,
		session.UserID,
		session.Token,
		session.RefreshToken,
		session.IP,
		session.UserAgent,
		session.Device,
		session.Browser,
		session.OS,
		session.Fingerprint,
		geoCountry(session.Geo),
		geoCity(session.Geo),
		string(session.Status),
		string(session.LoginMethod),
		session.CreatedAt.UTC().Truncate(time.Microsecond),
		session.LastActivityAt.UTC().Truncate(time.Microsecond),
		session.ExpiresAt.UTC().Truncate(time.Microsecond),
		session.TerminatedAt,
		session.TerminationReason,
	)

	created, err := scanSession(row)
	if err != nil {
		return nil, mapError(err, "session", session.ID)
	}

	return created, nil
}

// Touch advances last_activity_at on a live session. Terminal sessions are
// left untouched; the missed update is harmless.
func (r *Repo) Touch(ctx context.Context, sessionID uuid.UUID, at time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, touchSQL, sessionID, at.UTC()); err != nil {
		return mapError(err, "session", sessionID)
	}

	return nil
}

// Terminate moves a live session into the given terminal status.
// Returns domain.ErrConflict if the session is already terminal, so a
// blocked session stays blocked no matter who asks.
func (r *Repo) Terminate(ctx context.Context, sessionID uuid.UUID, to domain.SessionStatus, reason string, at time.Time) (*domain.Session, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, terminateSQL, sessionID, string(to), at.UTC(), reason)

	terminated, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("session %s not live: %w", sessionID, domain.ErrConflict)
		}
		return nil, mapError(err, "session", sessionID)
	}

	return terminated, nil
}

// ExpireBefore terminates every live session whose fixed lifetime has
// passed at the given instant. Returns the number of sessions expired.
func (r *Repo) ExpireBefore(ctx context.Context, now time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, expireBeforeSQL, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("expire sessions: %w", err)
	}

	return int(ct.RowsAffected()), nil
}

// IdleBefore terminates every live session with no activity since cutoff.
// Returns the number of sessions marked inactive.
func (r *Repo) IdleBefore(ctx context.Context, now, cutoff time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, idleBeforeSQL, now.UTC(), cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("idle sessions: %w", err)
	}

	return int(ct.RowsAffected()), nil
}

// AddActivity appends one entry to a session's activity log.
func (r *Repo) AddActivity(ctx context.Context, activity *domain.SessionActivity) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, addActivitySQL,
		activity.ID,
		activity.SessionID,
		activity.UserID,
		string(activity.Type),
		activity.Endpoint,
		activity.Method,
		activity.StatusCode,
		activity.DurationMs,
		activity.CreatedAt.UTC().Truncate(time.Microsecond),
	)
	if err != nil {
		return mapError(err, "session_activity", activity.ID)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByToken returns a session by its opaque token.
// Returns domain.ErrNotFound if no session carries the token.
func (r *Repo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByTokenSQL, token)

	session, err := scanSession(row)
	if err != nil {
		return nil, mapError(err, "session", uuid.Nil)
	}

	return session, nil
}

// GetByRefreshTokenHash returns a session by the hash of its refresh token.
func (r *Repo) GetByRefreshTokenHash(ctx context.Context, hash string) (*domain.Session, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByRefreshHashSQL, hash)

	session, err := scanSession(row)
	if err != nil {
		return nil, mapError(err, "session", uuid.Nil)
	}

	return session, nil
}

// GetByUser returns sessions for a user with pagination (ordered by
// created_at DESC). Returns sessions, total count, and error.
func (r *Repo) GetByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Session, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	if err := querier.QueryRow(ctx, countByUserSQL, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions by user_id: %w", err)
	}

	rows, err := querier.Query(ctx, getByUserSQL, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("get sessions by user_id: %w", err)
	}
	defer rows.Close()

	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("get sessions by user_id: %w", err)
	}

	return sessions, total, nil
}

// GetActiveByUser returns the user's live sessions ordered by
// last_activity_at ascending, so index 0 is the eviction candidate.
func (r *Repo) GetActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getActiveByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("get active sessions: %w", err)
	}
	defer rows.Close()

	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("get active sessions: %w", err)
	}

	return sessions, nil
}

// RecentCountries returns the distinct countries the user's sessions
// originated from since the cutoff. Unresolved origins are skipped.
func (r *Repo) RecentCountries(ctx context.Context, userID uuid.UUID, since time.Time) ([]string, error) {
	return r.distinctStrings(ctx, recentCountriesSQL, userID, since)
}

// RecentFingerprints returns the distinct device fingerprints the user
// logged in with since the cutoff.
func (r *Repo) RecentFingerprints(ctx context.Context, userID uuid.UUID, since time.Time) ([]string, error) {
	return r.distinctStrings(ctx, recentFingerprintsSQL, userID, since)
}

func (r *Repo) distinctStrings(ctx context.Context, sql string, userID uuid.UUID, since time.Time) ([]string, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, userID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("distinct session values: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

// ListActivity returns the most recent activity entries for a session.
func (r *Repo) ListActivity(ctx context.Context, sessionID uuid.UUID, limit int) ([]*domain.SessionActivity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listActivitySQL, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list session activity: %w", err)
	}
	defer rows.Close()

	activities := []*domain.SessionActivity{}
	for rows.Next() {
		var (
			a            domain.SessionActivity
			activityType string
		)
		if err := rows.Scan(&a.ID, &a.SessionID, &a.UserID, &activityType,
			&a.Endpoint, &a.Method, &a.StatusCode, &a.DurationMs, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Type = domain.SessionActivityType(activityType)
		activities = append(activities, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanSession scans a single session row from pgx.Row.
func scanSession(row pgx.Row) (*domain.Session, error) {
	var (
		s           domain.Session
		status      string
		loginMethod string
		geoCountry  *string
		geoCity     *string
	)

	if err := row.Scan(
		&s.ID, &s.UserID, &s.Token, &s.RefreshToken, &s.IP, &s.UserAgent,
		&s.Device, &s.Browser, &s.OS, &s.Fingerprint, &geoCountry, &geoCity,
		&status, &loginMethod, &s.CreatedAt, &s.LastActivityAt, &s.ExpiresAt,
		&s.TerminatedAt, &s.TerminationReason,
	); err != nil {
		return nil, err
	}

	s.Status = domain.SessionStatus(status)
	s.LoginMethod = domain.LoginMethod(loginMethod)
	if geoCountry != nil {
		s.Geo = &domain.GeoInfo{Country: *geoCountry}
		if geoCity != nil {
			s.Geo.City = *geoCity
		}
	}

	return &s, nil
}

// scanSessions scans multiple session rows from pgx.Rows.
func scanSessions(rows pgx.Rows) ([]*domain.Session, error) {
	sessions := []*domain.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func geoCountry(g *domain.GeoInfo) *string {
	if g == nil || g.Country == "" {
		return nil
	}
	return &g.Country
}

func geoCity(g *domain.GeoInfo) *string {
	if g == nil || g.City == "" {
		return nil
	}
	return &g.City
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
