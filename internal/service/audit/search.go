package audit

import (
	"context"
	"fmt"

	"github.com/medovate/clinic-backend/internal/domain"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

// SearchResult is one page of audit records plus the total match count.
type SearchResult struct {
	Records []*domain.AuditRecord
	Total   int
	Limit   int
	Offset  int
}

// Search returns audit records matching the filter, newest first.
// Limit is clamped to [1, 200]; zero selects the default page size.
func (s *Service) Search(ctx context.Context, filter domain.AuditFilter, limit, offset int) (*SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if offset < 0 {
		offset = 0
	}

	for _, et := range filter.EventTypes {
		if !et.IsValid() {
			return nil, domain.NewValidationError("event_types", "unknown audit event type "+string(et))
		}
	}
	if filter.Severity != nil && !filter.Severity.IsValid() {
		return nil, domain.NewValidationError("severity", "unknown severity "+string(*filter.Severity))
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domain.NewValidationError("from", "from must not be after to")
	}

	records, total, err := s.store.Search(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("audit.Search: %w", err)
	}

	return &SearchResult{
		Records: records,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}
