// Package alert delivers security event notifications. The default
// implementation writes structured log lines; a real deployment can swap
// in a pager or messaging integration behind the same interface.
package alert

import (
	"context"
	"log/slog"

	"github.com/medovate/clinic-backend/internal/domain"
)

// Notifier receives security events that warrant operator attention.
type Notifier interface {
	Notify(ctx context.Context, event *domain.SecurityEvent)
}

// SlogNotifier logs security events at a level matching their threat level.
type SlogNotifier struct {
	log *slog.Logger
}

// NewSlogNotifier creates a notifier writing to the given logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{log: logger.With("component", "alert")}
}

// Notify logs the event. CRITICAL and HIGH use error level so they hit
// the same sinks as operational failures.
func (n *SlogNotifier) Notify(ctx context.Context, event *domain.SecurityEvent) {
	attrs := []any{
		slog.String("event_id", event.ID.String()),
		slog.String("threat_type", event.Type.String()),
		slog.String("level", event.Level.String()),
		slog.String("source", event.SourceID),
		slog.String("description", event.Description),
	}
	if event.UserID != nil {
		attrs = append(attrs, slog.String("user_id", event.UserID.String()))
	}

	switch event.Level {
	case domain.LevelCritical, domain.LevelHigh:
		n.log.ErrorContext(ctx, "security alert", attrs...)
	case domain.LevelMedium:
		n.log.WarnContext(ctx, "security alert", attrs...)
	default:
		n.log.InfoContext(ctx, "security alert", attrs...)
	}
}
