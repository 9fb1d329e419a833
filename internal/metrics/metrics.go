// Package metrics exposes Prometheus collectors for the console.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

const namespace = "fleetconsole"

// Metrics holds the console collectors on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	Commands      *prometheus.CounterVec
	ResponseUnits *prometheus.CounterVec
	Connections   prometheus.Gauge
	Relocations   prometheus.Counter
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Processed commands by outcome.",
		}, []string{"outcome"}),
		ResponseUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_units_total",
			Help:      "Scheduled per-asset response units by intent.",
		}, []string{"intent"}),
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections",
			Help:      "Open websocket connections.",
		}),
		Relocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relocations_total",
			Help:      "Asset relocations performed by move commands.",
		}),
	}
	m.registry.MustRegister(
		m.Commands,
		m.ResponseUnits,
		m.Connections,
		m.Relocations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveOutcome records one processed command.
func (m *Metrics) ObserveOutcome(kind domain.OutcomeKind, intent string, targets int, mutates bool) {
	m.Commands.WithLabelValues(string(kind)).Inc()
	if kind != domain.OutcomeDispatched {
		return
	}
	m.ResponseUnits.WithLabelValues(intent).Add(float64(targets))
	if mutates {
		m.Relocations.Add(float64(targets))
	}
}

// SetConnections sets the open connection gauge.
func (m *Metrics) SetConnections(n int) {
	m.Connections.Set(float64(n))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
