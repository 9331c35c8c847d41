// Package metrics exposes prometheus collectors for classification traffic.
package metrics

import (
	"net/http"
	"time"

	"ticketclassifier/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ticketclassifier"

// Metrics holds the collectors registered for one process.
type Metrics struct {
	registry *prometheus.Registry

	classifications *prometheus.CounterVec
	completion      prometheus.Histogram
	batchRows       *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Ticket classifications by outcome.",
		}, []string{"outcome"}),
		completion: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_seconds",
			Help:      "Latency of completion calls made for classification.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		batchRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_rows_total",
			Help:      "CSV batch rows by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.classifications,
		m.completion,
		m.batchRows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, o := range models.Outcomes {
		m.batchRows.WithLabelValues(string(o))
		if o != models.OutcomeDropped {
			m.classifications.WithLabelValues(string(o))
		}
	}
	return m
}

// ObserveClassification counts one classification. A zero duration means no
// completion call was made and is not recorded as latency.
func (m *Metrics) ObserveClassification(outcome models.Outcome, d time.Duration) {
	m.classifications.WithLabelValues(string(outcome)).Inc()
	if d > 0 {
		m.completion.Observe(d.Seconds())
	}
}

// ObserveBatch adds the per-row results of one batch.
func (m *Metrics) ObserveBatch(classified, empty, failed, dropped int) {
	m.batchRows.WithLabelValues(string(models.OutcomeClassified)).Add(float64(classified))
	m.batchRows.WithLabelValues(string(models.OutcomeNoDescription)).Add(float64(empty))
	m.batchRows.WithLabelValues(string(models.OutcomeError)).Add(float64(failed))
	m.batchRows.WithLabelValues(string(models.OutcomeDropped)).Add(float64(dropped))
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
