package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate per method/route/status class
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request
	HTTPRequestDuration *prometheus.HistogramVec

	// Geocoder cache outcomes: hit, negative_hit, miss
	GeocoderCacheTotal *prometheus.CounterVec

	// Outbound calls to the forecast API, labelled by status
	ForecastCallsTotal *prometheus.CounterVec

	// Export requests by format
	ExportsTotal *prometheus.CounterVec
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	GeocoderCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocoder_cache_total",
			Help: "Location cache outcomes (hit, negative_hit, miss)",
		},
		[]string{"outcome"},
	)
	ForecastCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_calls_total",
			Help: "Outbound forecast API calls by status",
		},
		[]string{"status"},
	)
	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exports_total",
			Help: "Export requests by format",
		},
		[]string{"format"},
	)

	registry.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		GeocoderCacheTotal,
		ForecastCallsTotal,
		ExportsTotal,
	)
}

// Handler exposes the metrics registry for the /metrics endpoint
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
