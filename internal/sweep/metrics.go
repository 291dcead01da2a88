package sweep

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters/histograms for the scheduling sweep.
type Metrics struct {
	ticksTotal   prometheus.Counter
	ticksSkipped prometheus.Counter
	transitions  *prometheus.CounterVec
	tickDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxlane",
			Subsystem: "sweep",
			Name:      "ticks_total",
			Help:      "Total sweep ticks executed",
		}),
		ticksSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxlane",
			Subsystem: "sweep",
			Name:      "ticks_skipped_total",
			Help:      "Ticks dropped because a previous tick was still running",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxlane",
			Subsystem: "sweep",
			Name:      "transitions_total",
			Help:      "Call lifecycle transitions applied by the sweep",
		}, []string{"to"}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxlane",
			Subsystem: "sweep",
			Name:      "tick_duration_seconds",
			Help:      "Duration of one sweep tick",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.ticksTotal, m.ticksSkipped, m.transitions, m.tickDuration)
	return m
}

func (m *Metrics) ObserveTick(seconds float64) {
	if m == nil {
		return
	}
	m.ticksTotal.Inc()
	m.tickDuration.Observe(seconds)
}

func (m *Metrics) ObserveSkippedTick() {
	if m == nil {
		return
	}
	m.ticksSkipped.Inc()
}

func (m *Metrics) ObserveTransition(to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to).Inc()
}
