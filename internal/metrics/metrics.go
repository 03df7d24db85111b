// Package metrics exposes Prometheus collectors for crane calculations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels of crane_calculations_total.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "overstressed"
	OutcomeError   = "error"
	OutcomeInvalid = "invalid"
)

type Metrics struct {
	calculations *prometheus.CounterVec
	solveSeconds prometheus.Histogram
	maxStress    prometheus.Histogram
	gatherer     prometheus.Gatherer
}

// New registers the collectors with reg. reg must also be a Gatherer for
// Handler to serve it (a *prometheus.Registry is both).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crane_calculations_total",
			Help: "Crane calculations by outcome.",
		}, []string{"outcome"}),
		solveSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "crane_solve_seconds",
			Help:    "Wall time of model build, solve and stress evaluation.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		maxStress: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "crane_max_stress_mpa",
			Help:    "Largest member bending stress per calculation.",
			Buckets: []float64{25, 50, 100, 150, 235, 355, 500, 700, 1000},
		}),
	}
	reg.MustRegister(m.calculations, m.solveSeconds, m.maxStress)
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// ObserveRun records one finished calculation. A nil *Metrics is a no-op.
func (m *Metrics) ObserveRun(outcome string, seconds, maxStress float64) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK || outcome == OutcomeFailed {
		m.solveSeconds.Observe(seconds)
		m.maxStress.Observe(maxStress)
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
