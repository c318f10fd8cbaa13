// Package metrics holds the Prometheus collectors for authentication events.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels.
const (
	OperationRegister = "register"
	OperationLogin    = "login"
)

// Outcome labels shared by operations and guard decisions.
const (
	OutcomeSuccess            = "success"
	OutcomeDuplicateEmail     = "duplicate_email"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeInvalidInput       = "invalid_input"
	OutcomeError              = "error"
	OutcomeUnauthorized       = "unauthorized"
	OutcomeExpired            = "expired"
	OutcomeInvalidToken       = "invalid_token"
	OutcomeForbidden          = "forbidden"
)

// Guard labels.
const (
	GuardAuthenticate = "authenticate"
	GuardRole         = "role"
)

// Hash operation labels.
const (
	HashOperationHash   = "hash"
	HashOperationVerify = "verify"
)

// AuthOperations counts register and login attempts by outcome.
var AuthOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bookshop_auth_operations_total",
		Help: "Total number of authentication operations by outcome",
	},
	[]string{"operation", "outcome"},
)

// GuardDecisions counts request guard decisions by outcome.
var GuardDecisions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bookshop_guard_decisions_total",
		Help: "Total number of request guard decisions by guard and outcome",
	},
	[]string{"guard", "outcome"},
)

// HashDuration observes time spent inside bcrypt.
var HashDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "bookshop_password_hash_duration_seconds",
		Help:    "Password hash and verify duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
	},
	[]string{"operation"},
)

// HTTPRequests counts served HTTP requests by route pattern and status code.
var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bookshop_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status code",
	},
	[]string{"method", "route", "code"},
)

// RegisterMetrics registers the package collectors with reg.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AuthOperations)
	reg.MustRegister(GuardDecisions)
	reg.MustRegister(HashDuration)
	reg.MustRegister(HTTPRequests)
}

// RecordAuthOperation increments the operation counter.
func RecordAuthOperation(operation, outcome string) {
	AuthOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordGuardDecision increments the guard decision counter.
func RecordGuardDecision(guard, outcome string) {
	GuardDecisions.WithLabelValues(guard, outcome).Inc()
}

// ObserveHash records the duration of a hash or verify call.
func ObserveHash(operation string, d time.Duration) {
	HashDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(method, route, code string) {
	HTTPRequests.WithLabelValues(method, route, code).Inc()
}
