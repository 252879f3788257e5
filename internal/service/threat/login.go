package threat

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
)

// OnLoginAttempt feeds one authentication attempt into the monitor.
//
// A blocked source is rejected before anything is counted, which also acts
// as the brute-force debounce: once the threshold fires and blocks the
// source, further attempts short-circuit here instead of re-firing the
// rule. The returned event is non-nil only when a rule fired on this call.
func (m *Monitor) OnLoginAttempt(ctx context.Context, sourceID string, userID uuid.UUID, success bool, userAgent string) (*domain.SecurityEvent, error) {
	if sourceID == "" {
		return nil, domain.NewValidationError("source_id", "source id is required")
	}
	now := m.now().UTC()

	if m.state.isBlocked(sourceID, now) {
		return nil, fmt.Errorf("source %s: %w", sourceID, domain.ErrSourceBlocked)
	}

	if success {
		if userID != uuid.Nil {
			m.state.profile(userID).observe(observation{
				hour:    now.Hour(),
				hourSet: true,
				source:  sourceID,
			}, now, m.cfg.AnomalyIncrement, m.cfg.AnomalyDecay)
		}
		return nil, nil
	}

	failures := m.state.loginWindow(sourceID).add(now, m.cfg.LoginWindow)
	if failures < m.cfg.MaxLoginAttempts {
		return nil, nil
	}

	var actor *uuid.UUID
	if userID != uuid.Nil {
		actor = &userID
	}
	event := m.raise(ctx, domain.ThreatBruteForce, domain.LevelHigh, sourceID, actor,
		fmt.Sprintf("%d failed login attempts within %s", failures, m.cfg.LoginWindow),
		map[string]any{
			"failed_attempts": failures,
			"window":          m.cfg.LoginWindow.String(),
			"user_agent":      userAgent,
		},
		[]domain.ResponseAction{domain.ActionBlockSource, domain.ActionAlert},
	)
	m.state.loginWindow(sourceID).reset()
	return event, nil
}
