package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/venue-access-service/internal/rbac"
)

// Metrics holds the service's prometheus collectors.
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	errors    *prometheus.CounterVec
	decisions *prometheus.CounterVec
}

// NewMetrics registers collectors on reg. A nil registerer yields a Metrics
// whose methods are no-ops.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	errors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_errors_total",
		Help: "Error responses by route and error code.",
	}, []string{"method", "route", "code"})
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "authorization_decisions_total",
		Help: "Permission checks by permission and outcome.",
	}, []string{"permission", "outcome"})
	reg.MustRegister(requests, duration, errors, decisions)
	return &Metrics{
		requests:  requests,
		duration:  duration,
		errors:    errors,
		decisions: decisions,
	}
}

// RecordRequest counts a completed request.
func (m *Metrics) RecordRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordError counts an error response.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil || m.errors == nil {
		return
	}
	m.errors.WithLabelValues(method, normalizeLabel(route), code).Inc()
}

// ObserveDecision counts an authorization outcome.
func (m *Metrics) ObserveDecision(perm rbac.Permission, decision rbac.Decision, err error) {
	if m == nil || m.decisions == nil {
		return
	}
	m.decisions.WithLabelValues(normalizeLabel(string(perm)), decisionOutcome(decision, err)).Inc()
}

func decisionOutcome(decision rbac.Decision, err error) string {
	switch {
	case err != nil:
		return "error"
	case decision.Allowed:
		return "allow"
	case decision.Reason != "":
		return "deny_" + string(decision.Reason)
	default:
		return "deny"
	}
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

// Handler exposes gatherer in the prometheus text format.
func Handler(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
