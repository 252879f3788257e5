package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the explicit state of a session's lifecycle.
//
// ACTIVE and SUSPICIOUS sessions self-loop on each successful validation;
// all other states are terminal and can never be revalidated.
type SessionStatus string

const (
	SessionActive     SessionStatus = "active"
	SessionSuspicious SessionStatus = "suspicious"
	SessionBlocked    SessionStatus = "blocked"
	SessionExpired    SessionStatus = "expired"
	SessionInactive   SessionStatus = "inactive"
	SessionLoggedOut  SessionStatus = "logged_out"
)

func (s SessionStatus) String() string { return string(s) }

// IsValid returns true if the status is a known value.
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionActive, SessionSuspicious, SessionBlocked,
		SessionExpired, SessionInactive, SessionLoggedOut:
		return true
	}
	return false
}

// IsTerminal returns true for states a session can never leave.
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionBlocked, SessionExpired, SessionInactive, SessionLoggedOut:
		return true
	}
	return false
}

// LoginMethod records how a session was established.
type LoginMethod string

const (
	LoginPassword  LoginMethod = "password"
	LoginOAuth     LoginMethod = "oauth"
	LoginSSO       LoginMethod = "sso"
	LoginTwoFactor LoginMethod = "2fa"
)

func (m LoginMethod) String() string { return string(m) }

// IsValid returns true if the login method is a known value.
func (m LoginMethod) IsValid() bool {
	switch m {
	case LoginPassword, LoginOAuth, LoginSSO, LoginTwoFactor:
		return true
	}
	return false
}

// GeoInfo is the resolved geographic origin of a session. Optional:
// resolution failure leaves it nil.
type GeoInfo struct {
	Country string
	City    string
}

// Session is one authenticated presence of a user. Sessions are
// soft-terminated, never hard-deleted.
type Session struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Token             string
	RefreshToken      string
	IP                string
	UserAgent         string
	Device            string
	Browser           string
	OS                string
	Fingerprint       string
	Geo               *GeoInfo
	Status            SessionStatus
	LoginMethod       LoginMethod
	CreatedAt         time.Time
	LastActivityAt    time.Time
	ExpiresAt         time.Time
	TerminatedAt      *time.Time
	TerminationReason *string
}

// ExpiredAt returns true if the fixed lifetime has passed at the given time.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// IdleAt returns true if the session has been inactive longer than timeout.
func (s *Session) IdleAt(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivityAt) > timeout
}

// Terminate moves the session into a terminal state and returns the activity
// type to record for the transition. Transitions out of a terminal state are
// rejected; a blocked session in particular stays blocked.
func (s *Session) Terminate(to SessionStatus, reason string, now time.Time) (SessionActivityType, error) {
	if !to.IsTerminal() {
		return "", fmt.Errorf("session %s: %q is not a terminal status: %w", s.ID, to, ErrValidation)
	}
	if s.Status.IsTerminal() {
		return "", fmt.Errorf("session %s already %s: %w", s.ID, s.Status, ErrConflict)
	}

	s.Status = to
	s.TerminatedAt = &now
	s.TerminationReason = &reason

	switch to {
	case SessionBlocked:
		return ActivityBlocked, nil
	case SessionExpired:
		return ActivityExpired, nil
	case SessionInactive:
		return ActivityIdleTimeout, nil
	default:
		return ActivityTerminated, nil
	}
}

// SessionActivityType classifies entries in a session's activity log.
type SessionActivityType string

const (
	ActivityLogin       SessionActivityType = "login"
	ActivityLogout      SessionActivityType = "logout"
	ActivityRequest     SessionActivityType = "request"
	ActivityTerminated  SessionActivityType = "terminated"
	ActivityBlocked     SessionActivityType = "blocked"
	ActivityEvicted     SessionActivityType = "evicted"
	ActivityExpired     SessionActivityType = "expired"
	ActivityIdleTimeout SessionActivityType = "idle_timeout"
)

func (t SessionActivityType) String() string { return string(t) }

// SessionActivity is one append-only record of an action validated against
// a session.
type SessionActivity struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	UserID     uuid.UUID
	Type       SessionActivityType
	Endpoint   string
	Method     string
	StatusCode int
	DurationMs int64
	CreatedAt  time.Time
}
