// Package app wires the daily report service together and owns its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration from environment and config.yaml
//	2. Initialize logging and OpenTelemetry
//	3. Create the report and health services
//	4. Build the chi router with the middleware chain and routes
//	5. Serve until the context is cancelled
//
// # Usage
//
//	a, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	return a.Run(ctx)
//
// # Graceful Shutdown
//
// Cancelling the context stops accepting connections, waits up to
// Server.ShutdownTimeout for in-flight requests and flushes telemetry.
// Errors are returned to the caller; the package never calls os.Exit.
package app
