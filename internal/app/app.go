package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"storereport/internal/config"
	apierrors "storereport/internal/errors"
	"storereport/internal/infrastructure"
	customMiddleware "storereport/internal/middleware"
	"storereport/internal/services"
	handlers "storereport/internal/transport/http"
	"storereport/pkg/contracts"
)

// AppName is logged at startup
const AppName = "直營店日報自動化系統"

// bodySlack covers multipart framing around the two uploaded files
const bodySlack = 1 << 20

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.ReportMetrics
	ErrorHandler  *apierrors.ErrorHandler
	ReportService *services.ReportService
	HealthService *services.HealthService
}

// NewApplication loads configuration, initializes logging and telemetry and
// wires the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("layout", contracts.LayoutVersion))

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	return New(cfg, logger, providers)
}

// New wires an application from already initialized dependencies
func New(cfg *config.Config, logger *slog.Logger, providers *infrastructure.OTelProviders) (*Application, error) {
	metrics, err := infrastructure.CreateReportMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create report metrics: %w", err)
	}

	if err := infrastructure.RegisterRuntimeMetrics(providers.Meter, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to register runtime metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, false),
	}

	a.initializeServices()
	a.setupRouter()
	a.createServer()

	return a, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	a.ReportService = services.NewReportService(a.Logger,
		services.WithTelemetry(a.OTelProviders.Tracer, a.Metrics))
	a.HealthService = services.NewHealthService(contracts.Version, a.Logger)
}

// setupRouter configures the HTTP router with all routes.
// Middleware order: RequestID → RealIP → OTel → Logger → Recoverer → SecurityHeaders.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	reportHandler := handlers.NewReportHandler(
		a.ReportService,
		a.Config.Upload.MaxBytes,
		a.Config.Upload.DownloadTTL,
		a.Logger,
		a.ErrorHandler,
	)

	// Uploads carry at most two files
	uploads := chi.Chain(customMiddleware.MaxBodySize(2*a.Config.Upload.MaxBytes + bodySlack))
	if a.Config.Security.RateLimit.Enabled {
		limiter := customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.ErrorHandler,
			a.Logger,
		)
		uploads = append(uploads, limiter.Handler)
	}

	r.Get("/", reportHandler.Page)
	r.With(uploads...).Post("/reports", reportHandler.SubmitForm)
	r.Get("/reports/{token}", reportHandler.Download)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/version", healthHandler.Version)

		r.With(uploads...).Post("/v1/reports", reportHandler.Generate)
	})

	metricsHandler := handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run listens on the configured port and serves until ctx is cancelled
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// A server failure cancels the group and is returned.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Application started",
			slog.String("address", fmt.Sprintf("http://%s", ln.Addr().String())))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(gctx))
	})

	return g.Wait()
}

// Stop gracefully stops the server and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}
