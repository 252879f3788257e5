package audit

import (
	"context"
	"fmt"
	"log/slog"
)

// PurgeExpired removes audit records whose per-record retention period has
// elapsed. Idempotent: a second run right after the first removes nothing.
func (s *Service) PurgeExpired(ctx context.Context) (int, error) {
	deleted, err := s.store.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("audit.PurgeExpired: %w", err)
	}

	if deleted > 0 {
		s.log.InfoContext(ctx, "purged expired audit records", slog.Int("deleted", deleted))
	}

	return deleted, nil
}
