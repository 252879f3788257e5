package session

import (
	"context"
	"fmt"
	"log/slog"
)

// PurgeExpired sweeps sessions that outlived their lifetime or idle window
// into their terminal states. The sweep is idempotent: already-terminated
// sessions are not touched.
func (s *Service) PurgeExpired(ctx context.Context) (*PurgeResult, error) {
	now := s.now().UTC()

	expired, err := s.store.ExpireBefore(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("expire sessions: %w", err)
	}

	idle, err := s.store.IdleBefore(ctx, now, now.Add(-s.cfg.IdleTimeout))
	if err != nil {
		return nil, fmt.Errorf("mark idle sessions inactive: %w", err)
	}

	if expired > 0 || idle > 0 {
		s.log.InfoContext(ctx, "session sweep done",
			slog.Int("expired", expired),
			slog.Int("idle", idle))
	}
	return &PurgeResult{Expired: expired, Idle: idle}, nil
}
