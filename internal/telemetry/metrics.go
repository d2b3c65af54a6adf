package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	QuotesTotal     *prometheus.CounterVec
	QuoteDuration   prometheus.Histogram
	RouteDuration   *prometheus.HistogramVec
	GateDecisions   *prometheus.CounterVec
}

// NewMetrics creates the service metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_http_requests_total",
				Help: "Total number of HTTP requests by route, method, and status",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		QuotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_shipping_quotes_total",
				Help: "Total shipping quote attempts by outcome",
			},
			[]string{"outcome"},
		),
		QuoteDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "storefront_shipping_quote_duration_seconds",
				Help:    "End-to-end shipping quote duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		RouteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_route_provider_duration_seconds",
				Help:    "Route provider call duration in seconds by provider and outcome",
				Buckets: []float64{.05, .1, .25, .5, 1, 2, 4, 8, 16},
			},
			[]string{"provider", "outcome"},
		),
		GateDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_gate_decisions_total",
				Help: "Session gate decisions by area and decision",
			},
			[]string{"area", "decision"},
		),
	}
}

// RecordRequest records an HTTP request metric.
func (m *Metrics) RecordRequest(route, method, status string, duration float64) {
	m.RequestsTotal.WithLabelValues(route, method, status).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(duration)
}

// ObserveQuote records a quote outcome.
func (m *Metrics) ObserveQuote(outcome string, seconds float64) {
	m.QuotesTotal.WithLabelValues(outcome).Inc()
	m.QuoteDuration.Observe(seconds)
}

// ObserveRoute records a route provider call.
func (m *Metrics) ObserveRoute(provider, outcome string, seconds float64) {
	m.RouteDuration.WithLabelValues(provider, outcome).Observe(seconds)
}

// RecordGate records a session gate decision.
func (m *Metrics) RecordGate(area, decision string) {
	m.GateDecisions.WithLabelValues(area, decision).Inc()
}
