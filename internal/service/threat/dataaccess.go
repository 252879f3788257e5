package threat

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
)

// DataAccessInput describes one read against protected records.
type DataAccessInput struct {
	UserID          uuid.UUID
	Resource        string
	Operation       string
	RecordCount     int
	SensitiveFields []string
	SourceID        string
	SessionToken    string
}

// OnDataAccess watches for exfiltration-shaped reads: bulk access above the
// configured limit, and access outside the user's historically typical
// hours once the profile has enough login history.
func (m *Monitor) OnDataAccess(ctx context.Context, input DataAccessInput) ([]*domain.SecurityEvent, error) {
	if input.UserID == uuid.Nil {
		return nil, domain.NewValidationError("user_id", "user id is required")
	}
	now := m.now().UTC()

	var events []*domain.SecurityEvent

	if input.RecordCount > m.cfg.BulkAccessLimit {
		events = append(events, m.raise(ctx, domain.ThreatDataExfiltration, domain.LevelHigh,
			input.SourceID, &input.UserID,
			fmt.Sprintf("bulk %s of %d %s records (limit %d)",
				input.Operation, input.RecordCount, input.Resource, m.cfg.BulkAccessLimit),
			map[string]any{
				"record_count":     input.RecordCount,
				"limit":            m.cfg.BulkAccessLimit,
				"resource":         input.Resource,
				"operation":        input.Operation,
				"sensitive_fields": input.SensitiveFields,
				"session_token":    input.SessionToken,
			},
			[]domain.ResponseAction{domain.ActionAlert, domain.ActionQuarantineSession},
		))
	}

	if known, typical := m.state.profile(input.UserID).typicalHours(now.Hour()); known && !typical {
		events = append(events, m.raise(ctx, domain.ThreatOffHoursAccess, domain.LevelLow,
			input.SourceID, &input.UserID,
			fmt.Sprintf("%s access to %s at hour %02d, outside typical hours",
				input.Operation, input.Resource, now.Hour()),
			map[string]any{
				"hour":     now.Hour(),
				"resource": input.Resource,
			},
			[]domain.ResponseAction{domain.ActionLog},
		))
	}

	return events, nil
}
