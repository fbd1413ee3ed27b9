package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pyhub-apps/pdf2xlsx/pkg/annotate"
)

// Conversion outcomes used as the outcome label
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// Metrics are the server's prometheus collectors
type Metrics struct {
	conversions *prometheus.CounterVec
	duration    prometheus.Histogram
	cells       *prometheus.CounterVec
}

// NewMetrics registers the conversion collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pdf2xlsx_conversions_total",
			Help: "Conversions by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pdf2xlsx_conversion_duration_seconds",
			Help:    "Time spent converting one upload.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		cells: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pdf2xlsx_annotated_cells_total",
			Help: "Cells colored by the annotation passes.",
		}, []string{"color"}),
	}
}

// newRegistry returns a registry with the runtime collectors
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func (m *Metrics) observe(outcome string, seconds float64) {
	m.conversions.WithLabelValues(outcome).Inc()
	m.duration.Observe(seconds)
}

func (m *Metrics) annotated(d *annotate.Directives) {
	for _, c := range []annotate.Color{annotate.Red, annotate.Orange} {
		m.cells.WithLabelValues(c.String()).Add(float64(d.Count(c)))
	}
}
