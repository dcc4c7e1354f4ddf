// Package metrics registers Prometheus collectors for the HTTP API and the
// matching engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the service collectors.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	searches        prometheus.Counter
	searchesMatched prometheus.Counter
}

// New registers the collectors on the given registerer (the default
// registerer when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketplace_http_request_duration_seconds",
			Help:    "HTTP request duration.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"method", "path"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "marketplace_http_in_flight_requests",
			Help: "HTTP requests currently being served.",
		}),
		searches: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_provider_searches_total",
			Help: "Provider capacity searches executed.",
		}),
		searchesMatched: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_provider_searches_matched_total",
			Help: "Provider searches returning at least one listing.",
		}),
	}
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncrementInFlight marks a request entering the server.
func (m *Metrics) IncrementInFlight() { m.inFlight.Inc() }

// DecrementInFlight marks a request leaving the server.
func (m *Metrics) DecrementInFlight() { m.inFlight.Dec() }

// RecordSearch records one provider search and whether it matched.
func (m *Metrics) RecordSearch(matched bool) {
	m.searches.Inc()
	if matched {
		m.searchesMatched.Inc()
	}
}
