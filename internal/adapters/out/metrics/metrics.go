// Package metrics exposes status engine activity as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"fleet/internal/core/application/notifier"
	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/domain/model/history"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fleet"

// Metrics counts recorded transitions and drift corrections.
type Metrics struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	corrections *prometheus.CounterVec
	purged      prometheus.Counter
}

var (
	_ notifier.Listener           = (*Metrics)(nil)
	_ commands.CorrectionObserver = (*Metrics)(nil)
)

// New registers the collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Recorded status changes by entity type and status pair.",
		}, []string{"entity_type", "from", "to"}),
		corrections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_corrections_total",
			Help:      "Live statuses forced back to the newest history record.",
		}, []string{"entity_type", "from", "to"}),
		purged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_records_purged_total",
			Help:      "History records removed by the retention job.",
		}),
	}

	m.registry.MustRegister(
		m.transitions,
		m.corrections,
		m.purged,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) OnStatusChanged(_ context.Context, event history.StatusChanged) error {
	m.transitions.WithLabelValues(event.EntityType, event.PreviousStatus, event.NewStatus).Inc()
	return nil
}

func (m *Metrics) ObserveCorrection(entityType, from, to string) {
	m.corrections.WithLabelValues(entityType, from, to).Inc()
}

// ObservePurge adds n purged history records.
func (m *Metrics) ObservePurge(n int64) {
	if n > 0 {
		m.purged.Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
