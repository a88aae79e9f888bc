package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for chat turns.
type ConversationMetrics struct {
	turnsTotal       *prometheus.CounterVec
	escalationsTotal *prometheus.CounterVec
	bookingsTotal    prometheus.Counter
	turnLatency      *prometheus.HistogramVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sunsweeper",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total conversation turns handled",
		}, []string{"intent", "outcome"}),
		escalationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sunsweeper",
			Subsystem: "conversation",
			Name:      "escalations_total",
			Help:      "Total conversations flagged for human followup",
		}, []string{"reason"}),
		bookingsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sunsweeper",
			Subsystem: "conversation",
			Name:      "bookings_total",
			Help:      "Total confirmed bookings",
		}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sunsweeper",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "Latency of conversation turn handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.escalationsTotal, m.bookingsTotal, m.turnLatency)
	return m
}

func (m *ConversationMetrics) ObserveTurn(intent, outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent, outcome).Inc()
}

func (m *ConversationMetrics) ObserveEscalation(reason string) {
	if m == nil {
		return
	}
	m.escalationsTotal.WithLabelValues(reason).Inc()
}

func (m *ConversationMetrics) ObserveBooking() {
	if m == nil {
		return
	}
	m.bookingsTotal.Inc()
}

func (m *ConversationMetrics) ObserveTurnLatency(intent string, seconds float64) {
	if m == nil {
		return
	}
	m.turnLatency.WithLabelValues(intent).Observe(seconds)
}
