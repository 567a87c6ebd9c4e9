// Package metric exposes Prometheus instrumentation for the relay.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the relay's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// ConnectionsActive tracks open WebSocket connections by role
	// (unauthenticated, device, listener).
	ConnectionsActive *prometheus.GaugeVec

	// SessionsActive tracks sessions with at least one member.
	SessionsActive prometheus.Gauge

	// BroadcastsTotal counts caption frames fanned out to sessions.
	BroadcastsTotal prometheus.Counter

	// FramesDropped counts frames discarded before fan-out, by reason
	// (rate_limited, not_joined, invalid_json, write_failed).
	FramesDropped *prometheus.CounterVec

	// LivenessEvictions counts connections terminated by the sweeper.
	LivenessEvictions prometheus.Counter

	// HTTPRequestsTotal counts HTTP requests by route and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// EnrollmentsIssued counts enrollment tokens issued.
	EnrollmentsIssued prometheus.Counter

	// EnrollmentsRedeemed counts enrollment tokens redeemed for devices.
	EnrollmentsRedeemed prometheus.Counter
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		ConnectionsActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "relay",
			Name:      "connections_active",
			Help:      "Open WebSocket connections by role.",
		}, []string{"role"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "relay",
			Name:      "sessions_active",
			Help:      "Sessions with at least one joined connection.",
		}),
		BroadcastsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "broadcasts_total",
			Help:      "Caption frames fanned out to session peers.",
		}),
		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "frames_dropped_total",
			Help:      "Frames discarded before fan-out, by reason.",
		}, []string{"reason"}),
		LivenessEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "liveness_evictions_total",
			Help:      "Connections terminated by the liveness sweeper.",
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		EnrollmentsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "enrollments_issued_total",
			Help:      "Enrollment tokens issued.",
		}),
		EnrollmentsRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "enrollments_redeemed_total",
			Help:      "Enrollment tokens redeemed for device credentials.",
		}),
	}

	reg.MustRegister(
		m.ConnectionsActive,
		m.SessionsActive,
		m.BroadcastsTotal,
		m.FramesDropped,
		m.LivenessEvictions,
		m.HTTPRequestsTotal,
		m.EnrollmentsIssued,
		m.EnrollmentsRedeemed,
	)
	return m
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
