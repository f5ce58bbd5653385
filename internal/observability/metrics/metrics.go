package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the appointment booking flows.
type BookingMetrics struct {
	createdTotal      prometheus.Counter
	transitionsTotal  *prometheus.CounterVec
	notificationTotal *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		createdTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carepulse",
			Subsystem: "booking",
			Name:      "appointments_created_total",
			Help:      "Total appointment requests created",
		}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carepulse",
			Subsystem: "booking",
			Name:      "transitions_total",
			Help:      "Total administrative appointment transitions",
		}, []string{"kind", "status"}),
		notificationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carepulse",
			Subsystem: "booking",
			Name:      "notifications_total",
			Help:      "Total SMS notification dispatch attempts",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.transitionsTotal, m.notificationTotal)
	return m
}

func (m *BookingMetrics) ObserveCreated() {
	if m == nil {
		return
	}
	m.createdTotal.Inc()
}

func (m *BookingMetrics) ObserveTransition(kind, status string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(kind, status).Inc()
}

func (m *BookingMetrics) ObserveNotification(status string) {
	if m == nil {
		return
	}
	m.notificationTotal.WithLabelValues(status).Inc()
}
