// Package metrics holds the Prometheus collectors exported by the
// directory server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Authentication outcomes.
const (
	AuthSuccess = "success"
	AuthFailure = "failure"
	AuthLimited = "limited"
)

// Metrics owns a private registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
	authAttempt *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "staffdir_rpc_requests_total",
			Help: "Directory RPCs handled, by method and status code.",
		}, []string{"method", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "staffdir_rpc_duration_seconds",
			Help:    "Directory RPC latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		authAttempt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "staffdir_auth_attempts_total",
			Help: "PIN login attempts by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.rpcRequests,
		m.rpcDuration,
		m.authAttempt,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveRPC(method, code string, elapsed time.Duration) {
	m.rpcRequests.WithLabelValues(method, code).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveAuth(outcome string) {
	m.authAttempt.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
