package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingFlowMetrics exposes counters/histograms for the triage-to-booking flow.
type BookingFlowMetrics struct {
	triageTotal       *prometheus.CounterVec
	negotiationsTotal *prometheus.CounterVec
	turnsEmitted      prometheus.Histogram
	bookingsTotal     *prometheus.CounterVec
	callsTotal        *prometheus.CounterVec
}

func NewBookingFlowMetrics(reg prometheus.Registerer) *BookingFlowMetrics {
	m := &BookingFlowMetrics{
		triageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quickcare",
			Subsystem: "triage",
			Name:      "assessments_total",
			Help:      "Total triage assessments by outcome",
		}, []string{"outcome"}),
		negotiationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quickcare",
			Subsystem: "negotiation",
			Name:      "runs_total",
			Help:      "Total negotiation runs by path and outcome",
		}, []string{"path", "outcome"}),
		turnsEmitted: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quickcare",
			Subsystem: "negotiation",
			Name:      "turns_emitted",
			Help:      "Dialogue turns emitted per negotiation run",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
		}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quickcare",
			Subsystem: "bookings",
			Name:      "persisted_total",
			Help:      "Total booking persistence attempts by result",
		}, []string{"result"}),
		callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quickcare",
			Subsystem: "voice",
			Name:      "outbound_calls_total",
			Help:      "Total outbound call attempts by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.triageTotal, m.negotiationsTotal, m.turnsEmitted, m.bookingsTotal, m.callsTotal)
	return m
}

func (m *BookingFlowMetrics) ObserveTriage(outcome string) {
	if m == nil {
		return
	}
	m.triageTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingFlowMetrics) ObserveNegotiation(path, outcome string) {
	if m == nil {
		return
	}
	m.negotiationsTotal.WithLabelValues(path, outcome).Inc()
}

func (m *BookingFlowMetrics) ObserveTurns(count int) {
	if m == nil {
		return
	}
	m.turnsEmitted.Observe(float64(count))
}

func (m *BookingFlowMetrics) ObserveBookingPersisted(result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(result).Inc()
}

func (m *BookingFlowMetrics) ObserveOutboundCall(status string) {
	if m == nil {
		return
	}
	m.callsTotal.WithLabelValues(status).Inc()
}
