package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmarkov/weather-requests-api/internal/export"
	"github.com/dmarkov/weather-requests-api/internal/observability"
	"github.com/dmarkov/weather-requests-api/internal/service"
)

// ExportHandler handles export requests
type ExportHandler struct {
	service  service.ServiceInterface
	exporter *export.Exporter
}

// NewExportHandler creates a new export handler
func NewExportHandler(service service.ServiceInterface, exporter *export.Exporter) *ExportHandler {
	return &ExportHandler{service: service, exporter: exporter}
}

// Export handles GET /api/v1/export
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		http.Error(w, "query parameter 'format' is required", http.StatusBadRequest)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
	}

	requests, err := h.service.ListForExport(r.Context(), limit, r.URL.Query().Get("location"))
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.exporter.Export(export.FlattenRequests(requests), format)
	if err != nil {
		writeError(w, err)
		return
	}
	observability.ExportsTotal.WithLabelValues(format).Inc()

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Content)
}
