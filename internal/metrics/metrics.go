// Package metrics declares the console's prometheus collectors. They register with the
// default registry, which the router exposes on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK        = "ok"
	OutcomeStatus    = "status_error"
	OutcomeTransport = "transport_error"
	OutcomeRejected  = "rejected"
)

var (
	backendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "console",
		Name:      "backend_requests_total",
		Help:      "Requests sent to the backend, by resource and outcome.",
	}, []string{"resource", "outcome"})

	backendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "console",
		Name:      "backend_request_seconds",
		Help:      "Backend request latency by resource.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"resource"})

	attendanceSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "console",
		Name:      "attendance_submissions_total",
		Help:      "Attendance submissions by outcome.",
	}, []string{"outcome"})

	sessionsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "console",
		Name:      "attendance_sessions_swept_total",
		Help:      "Expired in-memory attendance sessions removed by the sweep job.",
	})
)

func ObserveBackend(resource, outcome string, elapsed time.Duration) {
	backendRequests.WithLabelValues(resource, outcome).Inc()
	backendLatency.WithLabelValues(resource).Observe(elapsed.Seconds())
}

func CountSubmission(outcome string) {
	attendanceSubmissions.WithLabelValues(outcome).Inc()
}

func CountSwept(n int) {
	if n > 0 {
		sessionsSwept.Add(float64(n))
	}
}
