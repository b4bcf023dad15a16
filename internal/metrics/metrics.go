// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)
	imageUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_image_uploads_total",
			Help: "Image uploads by outcome.",
		},
		[]string{"outcome"},
	)
	imageDeletesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_image_deletes_total",
			Help: "Image deletes by outcome (confirmed, unconfirmed).",
		},
		[]string{"outcome"},
	)
	storeErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_store_errors_total",
			Help: "Catalog store failures by operation and error kind.",
		},
		[]string{"operation", "kind"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(imageUploadsTotal)
	prometheus.MustRegister(imageDeletesTotal)
	prometheus.MustRegister(storeErrorsTotal)
}

// RecordRequest records one served HTTP request.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

func RecordUploads(succeeded, failed int) {
	imageUploadsTotal.WithLabelValues("ok").Add(float64(succeeded))
	imageUploadsTotal.WithLabelValues("failed").Add(float64(failed))
}

func RecordDelete(confirmed bool) {
	if confirmed {
		imageDeletesTotal.WithLabelValues("confirmed").Inc()
		return
	}
	imageDeletesTotal.WithLabelValues("unconfirmed").Inc()
}

func RecordStoreError(operation, kind string) {
	storeErrorsTotal.WithLabelValues(operation, kind).Inc()
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
