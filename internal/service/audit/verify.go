package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
)

// VerifyRecord loads a record and checks its checksum against the stored
// canonical fields. A mismatch is reported as domain.ErrIntegrity and never
// silently corrected.
func (s *Service) VerifyRecord(ctx context.Context, id uuid.UUID) (*domain.AuditRecord, error) {
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("audit.VerifyRecord: %w", err)
	}

	if !record.VerifyIntegrity() {
		s.log.ErrorContext(ctx, "audit record integrity mismatch",
			slog.String("record_id", record.ID.String()),
			slog.String("stored_checksum", record.Checksum),
			slog.String("computed_checksum", record.ComputeChecksum()),
		)
		return record, fmt.Errorf("audit_record %s: %w", record.ID, domain.ErrIntegrity)
	}

	return record, nil
}

// SweepIntegrity verifies every record matching the filter and returns the
// IDs of records whose checksum no longer matches.
func (s *Service) SweepIntegrity(ctx context.Context, filter domain.AuditFilter) ([]uuid.UUID, error) {
	var tampered []uuid.UUID

	offset := 0
	for {
		records, total, err := s.store.Search(ctx, filter, maxSearchLimit, offset)
		if err != nil {
			return nil, fmt.Errorf("audit.SweepIntegrity: %w", err)
		}

		for _, record := range records {
			if !record.VerifyIntegrity() {
				tampered = append(tampered, record.ID)
			}
		}

		offset += len(records)
		if len(records) == 0 || offset >= total {
			break
		}
	}

	if len(tampered) > 0 {
		s.log.ErrorContext(ctx, "audit integrity sweep found mismatches",
			slog.Int("tampered", len(tampered)),
		)
	}

	return tampered, nil
}
