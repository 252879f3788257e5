// Command server runs the clinic security backend: REST API, session
// management, audit trail, and threat monitoring.
//
// Configuration is read from CONFIG_PATH (yaml) and environment variables;
// see internal/config for the full list.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/medovate/clinic-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
