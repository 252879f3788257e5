package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
)

const defaultSummaryWindowDays = 30

// SummarizeActorActivity aggregates one actor's audit trail over the last
// windowDays days. Zero or negative windowDays selects the 30-day default.
func (s *Service) SummarizeActorActivity(ctx context.Context, actorID uuid.UUID, windowDays int) (*domain.ActorActivitySummary, error) {
	if windowDays <= 0 {
		windowDays = defaultSummaryWindowDays
	}

	since := s.now().UTC().AddDate(0, 0, -windowDays)

	summary, err := s.store.ActorActivity(ctx, actorID, since)
	if err != nil {
		return nil, fmt.Errorf("audit.SummarizeActorActivity: %w", err)
	}

	summary.WindowDays = windowDays
	return summary, nil
}
