package http

import (
	"context"

	"storereport/internal/services"
	"storereport/pkg/contracts/domain"
)

// ReportServiceInterface defines the report generation the handlers depend on
type ReportServiceInterface interface {
	Generate(ctx context.Context, req services.GenerateRequest) (*domain.ReportResult, error)
}
