// Command web serves the upload page and the report API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"storereport/internal/app"
	"storereport/internal/infrastructure"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
