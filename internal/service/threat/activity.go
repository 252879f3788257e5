package threat

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
)

// ActivityInput is one user action fed into behavioral scoring.
type ActivityInput struct {
	UserID   uuid.UUID
	Action   string
	Resource string
	// OldRole/NewRole are set when the action changed a user's role.
	OldRole domain.Role
	NewRole domain.Role
	// SourceID and Fingerprint enrich the behavioral profile when known.
	SourceID    string
	Fingerprint string
}

// OnUserActivity updates the user's action histogram and anomaly score.
// A score above the threshold raises UNUSUAL_ACTIVITY; a role change to a
// strictly higher privilege raises PRIVILEGE_ESCALATION.
func (m *Monitor) OnUserActivity(ctx context.Context, input ActivityInput) ([]*domain.SecurityEvent, error) {
	if input.UserID == uuid.Nil {
		return nil, domain.NewValidationError("user_id", "user id is required")
	}
	if input.Action == "" {
		return nil, domain.NewValidationError("action", "action is required")
	}
	now := m.now().UTC()

	score := m.state.profile(input.UserID).observe(observation{
		action:      input.Action,
		source:      input.SourceID,
		fingerprint: input.Fingerprint,
	}, now, m.cfg.AnomalyIncrement, m.cfg.AnomalyDecay)

	var events []*domain.SecurityEvent

	if score > m.cfg.AnomalyThreshold {
		events = append(events, m.raise(ctx, domain.ThreatUnusualActivity, domain.LevelMedium,
			input.SourceID, &input.UserID,
			fmt.Sprintf("anomaly score %.1f exceeds threshold %.1f after action %q",
				score, m.cfg.AnomalyThreshold, input.Action),
			map[string]any{
				"anomaly_score": score,
				"action":        input.Action,
				"resource":      input.Resource,
			},
			[]domain.ResponseAction{domain.ActionAlert, domain.ActionLog},
		))
	}

	if input.NewRole != "" && input.NewRole.PrivilegeLevel() > input.OldRole.PrivilegeLevel() {
		events = append(events, m.raise(ctx, domain.ThreatPrivilegeEscalation, domain.LevelHigh,
			input.SourceID, &input.UserID,
			fmt.Sprintf("role changed %s -> %s", input.OldRole, input.NewRole),
			map[string]any{
				"old_role": input.OldRole.String(),
				"new_role": input.NewRole.String(),
				"resource": input.Resource,
			},
			[]domain.ResponseAction{domain.ActionAlert, domain.ActionRequire2FA},
		))
	}

	return events, nil
}
