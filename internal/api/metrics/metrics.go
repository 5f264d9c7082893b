// Package metrics defines the custom Prometheus metrics of the eventbook
// console. They are registered with the default registry on import.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventbook"

// LoginAttemptsTotal counts login submissions.
// Label:
//   - result: "success", "rejected", "invalid" (failed form validation)
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegisterAttemptsTotal counts registration submissions, same labels as logins.
var RegisterAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "register_attempts_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - decision: "allow", "login", "unauthorized"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions.",
	},
	[]string{"decision"},
)

// BackendRequestDuration measures calls to the remote event-booking API.
// Labels:
//   - endpoint: request path, e.g. "/auth/login"
//   - status: HTTP status code, or "error" for transport failures
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the remote event-booking API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint", "status"},
)

// SessionAuthenticated is 1 while an identity is published, 0 otherwise.
var SessionAuthenticated = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_authenticated",
		Help:      "Whether a user is currently signed in to the console.",
	},
)

// ObserveBackend records one backend call. Its signature matches
// backend.Observer.
func ObserveBackend(endpoint, status string, elapsed time.Duration) {
	BackendRequestDuration.WithLabelValues(endpoint, status).Observe(elapsed.Seconds())
}

// SetAuthenticated updates SessionAuthenticated.
func SetAuthenticated(signedIn bool) {
	if signedIn {
		SessionAuthenticated.Set(1)
		return
	}
	SessionAuthenticated.Set(0)
}
