package api

import (
	"github.com/dmarkov/weather-requests-api/internal/export"
	"github.com/dmarkov/weather-requests-api/internal/observability"
	"github.com/dmarkov/weather-requests-api/internal/service"
	"github.com/dmarkov/weather-requests-api/internal/stats"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(service service.ServiceInterface, exporter *export.Exporter, statsCollector *stats.Collector, logger *zap.Logger) *mux.Router {
	handler := NewHandler(service)
	exportHandler := NewExportHandler(service, exporter)
	statsHandler := NewStatsHandler(statsCollector)

	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware)

	// Operational endpoints
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	router.Handle("/metrics", observability.Handler()).Methods("GET")

	// API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/requests", handler.CreateRequest).Methods("POST")
	v1.HandleFunc("/requests", handler.ListRequests).Methods("GET")
	v1.HandleFunc("/requests/{id}", handler.GetRequest).Methods("GET")
	v1.HandleFunc("/requests/{id}", handler.UpdateRequest).Methods("PUT")
	v1.HandleFunc("/requests/{id}", handler.DeleteRequest).Methods("DELETE")
	v1.HandleFunc("/locations/validate", handler.ValidateLocation).Methods("GET")
	v1.HandleFunc("/export", exportHandler.Export).Methods("GET")
	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	return router
}
