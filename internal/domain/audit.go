package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuditEventType classifies what kind of action an audit record describes.
type AuditEventType string

const (
	AuditEventCreate       AuditEventType = "create"
	AuditEventRead         AuditEventType = "read"
	AuditEventUpdate       AuditEventType = "update"
	AuditEventDelete       AuditEventType = "delete"
	AuditEventLogin        AuditEventType = "login"
	AuditEventLogout       AuditEventType = "logout"
	AuditEventAccessDenied AuditEventType = "access_denied"
	AuditEventSecurity     AuditEventType = "security"
	AuditEventExport       AuditEventType = "export"
	AuditEventConfigChange AuditEventType = "config_change"
)

func (t AuditEventType) String() string { return string(t) }

// IsValid returns true if the event type is a known value.
func (t AuditEventType) IsValid() bool {
	switch t {
	case AuditEventCreate, AuditEventRead, AuditEventUpdate, AuditEventDelete,
		AuditEventLogin, AuditEventLogout, AuditEventAccessDenied,
		AuditEventSecurity, AuditEventExport, AuditEventConfigChange:
		return true
	}
	return false
}

// AuditSeverity grades how serious an audited event is.
type AuditSeverity string

const (
	SeverityInfo     AuditSeverity = "info"
	SeverityWarning  AuditSeverity = "warning"
	SeverityError    AuditSeverity = "error"
	SeverityCritical AuditSeverity = "critical"
)

func (s AuditSeverity) String() string { return string(s) }

// IsValid returns true if the severity is a known value.
func (s AuditSeverity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError, SeverityCritical:
		return true
	}
	return false
}

// Actor identifies who performed the audited action.
type Actor struct {
	UserID   uuid.UUID
	UserName string
	Role     Role
}

// ResourceRef points at the entity an audit record is about.
type ResourceRef struct {
	Type string
	ID   string
}

// RequestContext captures the technical context of the request that
// produced an audit record.
type RequestContext struct {
	Endpoint   string
	Method     string
	StatusCode int
	LatencyMs  int64
}

// AuditRecord is a single append-only entry in the audit trail.
// Records are immutable after creation; any later change to a canonical
// field is detectable through the stored checksum.
type AuditRecord struct {
	ID            uuid.UUID
	EventType     AuditEventType
	Severity      AuditSeverity
	Actor         Actor
	SessionID     *uuid.UUID
	Resource      ResourceRef
	Action        string
	Description   string
	Before        map[string]any
	After         map[string]any
	Context       RequestContext
	Sensitive     bool
	RetentionDays int
	Checksum      string
	CreatedAt     time.Time
}

// canonicalString builds the deterministic field subset the checksum covers.
// Map-valued fields (Before/After) are deliberately excluded: their iteration
// order is unstable and they are already covered by Description at record time.
func (r AuditRecord) canonicalString() string {
	return strings.Join([]string{
		r.EventType.String(),
		r.Severity.String(),
		r.Actor.UserID.String(),
		r.Action,
		r.Resource.Type,
		r.Resource.ID,
		r.Description,
		fmt.Sprintf("%d", r.CreatedAt.UTC().UnixNano()),
	}, "|")
}

// ComputeChecksum returns the hex SHA-256 digest of the canonical field subset.
func (r AuditRecord) ComputeChecksum() string {
	sum := sha256.Sum256([]byte(r.canonicalString()))
	return hex.EncodeToString(sum[:])
}

// VerifyIntegrity recomputes the checksum and compares it to the stored one.
func (r AuditRecord) VerifyIntegrity() bool {
	return r.Checksum != "" && r.Checksum == r.ComputeChecksum()
}

// AuditFilter narrows an audit trail search. Zero values mean "any".
type AuditFilter struct {
	ActorID       *uuid.UUID
	EventTypes    []AuditEventType
	Severity      *AuditSeverity
	ResourceType  string
	ResourceID    string
	SensitiveOnly bool
	From          *time.Time
	To            *time.Time
}

// ActorActivitySummary aggregates an actor's audit trail over a window.
type ActorActivitySummary struct {
	ActorID        uuid.UUID
	WindowDays     int
	Total          int
	ByType         map[AuditEventType]int
	ByDay          map[string]int
	BySeverity     map[AuditSeverity]int
	BusiestDay     string
	SecurityEvents int
}
