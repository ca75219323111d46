package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cipherlab/internal/demo"
)

// Metrics exports workflow counters on its own registry.
type Metrics struct {
	reg      *prometheus.Registry
	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the workflow collectors plus a gauge that reports
// activeSessions at scrape time. activeSessions may be nil.
func New(activeSessions func() int) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cipherlab_actions_total",
			Help: "Workflow actions completed, by algorithm, action and outcome.",
		}, []string{"algorithm", "action", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cipherlab_action_duration_seconds",
			Help:    "Wall time of workflow actions including artificial delays.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 0.8, 1, 1.5, 2.5, 5},
		}, []string{"algorithm", "action"}),
	}
	m.reg.MustRegister(m.actions, m.duration, collectors.NewGoCollector())
	if activeSessions != nil {
		m.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "cipherlab_sessions_active",
			Help: "Demo sessions currently held in memory.",
		}, func() float64 { return float64(activeSessions()) }))
	}
	return m
}

func (m *Metrics) Observe(_ context.Context, e demo.Event) {
	m.actions.WithLabelValues(e.Algorithm, e.Action, e.Outcome).Inc()
	m.duration.WithLabelValues(e.Algorithm, e.Action).Observe(e.Duration.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
