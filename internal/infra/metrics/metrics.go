// Package metrics provides Prometheus metrics for the login service.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "loginsvc"

//nolint:gochecknoglobals
var (
	// LoginAttemptsTotal counts login attempts by outcome ("success" or an error kind).
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// LoginDuration measures how long a login attempt took, verification included.
	LoginDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "login_duration_seconds",
			Help:      "Duration of login attempts in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// HTTPResponsesTotal counts HTTP responses by method and status code.
	HTTPResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_responses_total",
			Help:      "Total number of HTTP responses",
		},
		[]string{"method", "status"},
	)

	// RateLimitedTotal counts requests rejected by the login throttle.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by rate limiting",
		},
	)
)

// RecordLogin records one login attempt.
func RecordLogin(outcome string, seconds float64) {
	LoginAttemptsTotal.WithLabelValues(outcome).Inc()
	LoginDuration.Observe(seconds)
}

// RecordResponse records one HTTP response. Methods outside the standard set are
// counted as "other" so clients cannot create new series.
func RecordResponse(method string, status int) {
	HTTPResponsesTotal.WithLabelValues(MethodLabel(method), strconv.Itoa(status)).Inc()
}

// MethodLabel maps a request method to a bounded label value.
func MethodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodOptions, http.MethodConnect, http.MethodTrace:
		return method
	default:
		return "other"
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
