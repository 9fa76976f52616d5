// Command server runs the time-tracking HTTP API.
//
// Configuration is read from CONFIG_PATH (YAML) and environment
// variables; see internal/config for the full list.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/rolltime/backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
