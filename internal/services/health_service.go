package services

import (
	"context"
	"log/slog"
	"time"

	"storereport/internal/infrastructure"
	"storereport/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	startTime time.Time
	now       func() time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status        string                      `json:"status"`
	Timestamp     time.Time                   `json:"timestamp"`
	Version       string                      `json:"version"`
	Layout        string                      `json:"layout"`
	UptimeSeconds float64                     `json:"uptime_seconds"`
	Runtime       infrastructure.RuntimeStats `json:"runtime"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized", slog.String("version", version))

	return &HealthService{
		version:   version,
		startTime: time.Now(),
		now:       time.Now,
		logger:    logger,
	}
}

// Check returns overall health status. The service holds no external
// dependencies, so a running process is healthy.
func (hs *HealthService) Check(ctx context.Context) HealthStatus {
	now := hs.now()
	status := HealthStatus{
		Status:        "ok",
		Timestamp:     now,
		Version:       hs.version,
		Layout:        contracts.LayoutVersion,
		UptimeSeconds: now.Sub(hs.startTime).Seconds(),
		Runtime:       infrastructure.ReadRuntimeStats(hs.startTime),
	}

	hs.logger.DebugContext(ctx, "HealthCheck: completed",
		slog.String("status", status.Status),
		slog.Float64("uptime_seconds", status.UptimeSeconds))

	return status
}

// Version returns version information
func (hs *HealthService) Version() contracts.VersionInfo {
	info := contracts.GetVersionInfo()
	info.Version = hs.version
	return info
}
