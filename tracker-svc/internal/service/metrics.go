package service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tracker_svc",
			Name:      "order_events_total",
			Help:      "Order events consumed by type and result.",
		}, []string{"type", "result"}),
	}
	m.registry.MustRegister(m.events)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Counter exposes one series, mainly for tests.
func (m *Metrics) Counter(eventType, result string) prometheus.Counter {
	return m.events.WithLabelValues(eventType, result)
}

func (m *Metrics) observe(eventType, result string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(eventType, result).Inc()
}
