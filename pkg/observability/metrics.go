package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/morph/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records engine activity as prometheus collectors.
type Metrics struct {
	transitions  *prometheus.CounterVec
	ignored      prometheus.Counter
	layoutEvents *prometheus.CounterVec
	current      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses the default prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "morph_orientation_transitions_total",
			Help: "Committed orientation changes by new class.",
		}, []string{"orientation"}),
		ignored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "morph_readings_ignored_total",
			Help: "Readings dropped because they could not be classified.",
		}),
		layoutEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "morph_layout_events_total",
			Help: "Per-element captures, applies and skips.",
		}, []string{"type", "orientation"}),
		current: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "morph_orientation_current",
			Help: "Committed orientation (0 unknown, 1 portrait, 2 landscape).",
		}),
	}

	reg.MustRegister(m.transitions, m.ignored, m.layoutEvents, m.current)
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	layout := func(_ context.Context, e *domain.LayoutEvent) {
		m.layoutEvents.WithLabelValues(string(e.Type), e.Orientation.String()).Inc()
	}
	return domain.LifecycleHooks{
		OnOrientationChange: func(_ context.Context, e *domain.OrientationEvent) {
			m.transitions.WithLabelValues(e.Current.String()).Inc()
			m.current.Set(float64(e.Current))
		},
		OnReadingIgnored: func(context.Context, *domain.ReadingEvent) {
			m.ignored.Inc()
		},
		OnCapture: layout,
		OnApply:   layout,
		OnSkip:    layout,
	}
}

// Handler serves the metrics gathered by g. A nil g uses the default gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
