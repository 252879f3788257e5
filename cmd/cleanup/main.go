// Command cleanup enforces data retention: it deletes audit records past
// the configured retention window and sweeps expired and idle sessions.
// It is intended to be invoked by an external cron job, not as an
// in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/medovate/clinic-backend/internal/adapter/postgres"
	auditrepo "github.com/medovate/clinic-backend/internal/adapter/postgres/audit"
	sessionrepo "github.com/medovate/clinic-backend/internal/adapter/postgres/session"
	"github.com/medovate/clinic-backend/internal/app"
	"github.com/medovate/clinic-backend/internal/config"
	auditsvc "github.com/medovate/clinic-backend/internal/service/audit"
	sessionsvc "github.com/medovate/clinic-backend/internal/service/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	auditService := auditsvc.NewService(logger, auditrepo.New(pool), cfg.Audit)
	sessionService := sessionsvc.NewService(logger, sessionrepo.New(pool), nil, nil, nil, nil, cfg.Session)

	purged, err := auditService.PurgeExpired(ctx)
	if err != nil {
		logger.Error("audit retention sweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sessions, err := sessionService.PurgeExpired(ctx)
	if err != nil {
		logger.Error("session sweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("cleanup completed",
		slog.Int("audit_purged", purged),
		slog.Int("sessions_expired", sessions.Expired),
		slog.Int("sessions_idle", sessions.Idle),
	)
}
