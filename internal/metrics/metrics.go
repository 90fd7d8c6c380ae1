// Package metrics exposes family safe activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/familysafe/internal/models"
	"github.com/mmynk/familysafe/internal/safe"
)

const namespace = "familysafe"

// Metrics holds the safe's collectors and the registry they live in.
type Metrics struct {
	registry   *prometheus.Registry
	events     *prometheus.CounterVec
	value      *prometheus.CounterVec
	balance    prometheus.Gauge
	members    prometheus.Gauge
	rejections *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, together with the standard
// Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Committed safe events by kind.",
		}, []string{"kind"}),
		value: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "value_total",
			Help:      "Value moved through the safe, in minimal units.",
		}, []string{"direction"}),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "balance",
			Help:      "Current safe balance, in minimal units.",
		}),
		members: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "members",
			Help:      "Number of registered family members.",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Rejected safe operations by reason.",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		m.events, m.value, m.balance, m.members, m.rejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe is a safe.Observer that records a committed event.
func (m *Metrics) Observe(ev models.Event, snap safe.Snapshot) {
	m.events.WithLabelValues(string(ev.Kind)).Inc()
	switch ev.Kind {
	case models.EventDeposit:
		m.value.WithLabelValues("in").Add(float64(ev.Amount))
	case models.EventWithdrawal:
		m.value.WithLabelValues("out").Add(float64(ev.Amount))
	}
	m.Set(snap)
}

// Set records the safe's current balance and member count.
func (m *Metrics) Set(snap safe.Snapshot) {
	m.balance.Set(float64(snap.Balance))
	m.members.Set(float64(snap.Members))
}

// Rejected counts an operation refused for reason.
func (m *Metrics) Rejected(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
