package notify

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks notice delivery. All methods are nil-safe so callers can
// skip wiring a registry in tests.
type Metrics struct {
	noticesTotal  *prometheus.CounterVec
	sinkErrsTotal prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		noticesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxlane",
			Subsystem: "notify",
			Name:      "notices_total",
			Help:      "Notices emitted, by kind",
		}, []string{"kind"}),
		sinkErrsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxlane",
			Subsystem: "notify",
			Name:      "sink_errors_total",
			Help:      "Failed sink publishes",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.noticesTotal, m.sinkErrsTotal)
	return m
}

func (m *Metrics) ObserveNotice(kind NoticeKind) {
	if m == nil {
		return
	}
	m.noticesTotal.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) ObserveSinkError() {
	if m == nil {
		return
	}
	m.sinkErrsTotal.Inc()
}
