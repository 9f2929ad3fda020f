// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solara_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solara_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solara_login_attempts_total",
		Help: "Admin login attempts by result.",
	}, []string{"result"})

	UploadedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solara_uploaded_bytes_total",
		Help: "Bytes written to the upload directory.",
	})
)

func RecordRequest(method, route string, status int, took time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

func RecordLogin(ok bool) {
	result := "rejected"
	if ok {
		result = "success"
	}
	LoginAttempts.WithLabelValues(result).Inc()
}

func RecordUpload(bytes int64) {
	UploadedBytes.Add(float64(bytes))
}
