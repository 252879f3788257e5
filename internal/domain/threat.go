package domain

import (
	"time"

	"github.com/google/uuid"
)

// ThreatType names a detection rule family.
type ThreatType string

const (
	ThreatBruteForce          ThreatType = "brute_force"
	ThreatRateLimitExceeded   ThreatType = "rate_limit_exceeded"
	ThreatSQLInjection        ThreatType = "sql_injection"
	ThreatXSS                 ThreatType = "xss_attempt"
	ThreatPathTraversal       ThreatType = "path_traversal"
	ThreatUnusualActivity     ThreatType = "unusual_activity"
	ThreatPrivilegeEscalation ThreatType = "privilege_escalation"
	ThreatDataExfiltration    ThreatType = "data_exfiltration"
	ThreatOffHoursAccess      ThreatType = "off_hours_access"
)

func (t ThreatType) String() string { return string(t) }

// ThreatLevel grades the severity of a detected threat.
type ThreatLevel string

const (
	LevelLow      ThreatLevel = "low"
	LevelMedium   ThreatLevel = "medium"
	LevelHigh     ThreatLevel = "high"
	LevelCritical ThreatLevel = "critical"
)

func (l ThreatLevel) String() string { return string(l) }

// Rank orders levels from least to most severe.
func (l ThreatLevel) Rank() int {
	switch l {
	case LevelLow:
		return 1
	case LevelMedium:
		return 2
	case LevelHigh:
		return 3
	case LevelCritical:
		return 4
	default:
		return 0
	}
}

// ResponseAction is one automated step dispatched when a rule fires.
// Actions execute independently; one failing does not block the rest.
type ResponseAction string

const (
	ActionBlockSource       ResponseAction = "block_source"
	ActionSuspendUser       ResponseAction = "suspend_user"
	ActionForceLogout       ResponseAction = "force_logout"
	ActionRateLimit         ResponseAction = "rate_limit"
	ActionQuarantineSession ResponseAction = "quarantine_session"
	ActionRequire2FA        ResponseAction = "require_2fa"
	ActionAlert             ResponseAction = "alert"
	ActionLog               ResponseAction = "log"
)

func (a ResponseAction) String() string { return string(a) }

// SecurityEvent is one detected threat instance. Created when a rule fires,
// mutated only on resolution.
type SecurityEvent struct {
	ID             uuid.UUID
	Type           ThreatType
	Level          ThreatLevel
	SourceID       string
	UserID         *uuid.UUID
	Description    string
	Evidence       map[string]any
	Actions        []ResponseAction
	Resolved       bool
	ResolvedAt     *time.Time
	ResolutionNote string
	CreatedAt      time.Time
}

// Resolve marks the event handled. Resolving twice is a conflict.
func (e *SecurityEvent) Resolve(note string, now time.Time) error {
	if e.Resolved {
		return ErrConflict
	}
	e.Resolved = true
	e.ResolvedAt = &now
	e.ResolutionNote = note
	return nil
}
