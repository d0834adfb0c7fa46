package http

import (
	"net/http"

	apierrors "storereport/internal/errors"
)

// MetricsHandler exposes the Prometheus scrape endpoint
type MetricsHandler struct {
	exporter     http.Handler
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler wraps the Prometheus exporter handler. A nil exporter
// means metrics are disabled and the endpoint answers 404.
func NewMetricsHandler(exporter http.Handler, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	return &MetricsHandler{exporter: exporter, errorHandler: errorHandler}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		h.errorHandler.NotFound(w, r)
		return
	}
	h.exporter.ServeHTTP(w, r)
}

// Enabled reports whether an exporter is attached
func (h *MetricsHandler) Enabled() bool {
	return h.exporter != nil
}
