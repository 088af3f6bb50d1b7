package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking engine.
type BookingMetrics struct {
	bookingsTotal     *prometheus.CounterVec
	slotConflicts     prometheus.Counter
	availabilityTotal prometheus.Counter
	bookingLatency    prometheus.Histogram
	transitionsTotal  *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendly",
			Subsystem: "bookings",
			Name:      "total",
			Help:      "Total booking attempts by outcome and payment method",
		}, []string{"outcome", "payment_method"}),
		slotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agendly",
			Subsystem: "bookings",
			Name:      "slot_conflicts_total",
			Help:      "Bookings rejected by the commit-time conflict re-check",
		}),
		availabilityTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agendly",
			Subsystem: "bookings",
			Name:      "availability_requests_total",
			Help:      "Availability queries served",
		}),
		bookingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agendly",
			Subsystem: "bookings",
			Name:      "latency_seconds",
			Help:      "Latency of booking orchestration",
			Buckets:   prometheus.DefBuckets,
		}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendly",
			Subsystem: "bookings",
			Name:      "transitions_total",
			Help:      "Appointment status transitions by target state and outcome",
		}, []string{"to", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.slotConflicts, m.availabilityTotal, m.bookingLatency, m.transitionsTotal)
	return m
}

func (m *BookingMetrics) ObserveBooking(outcome, paymentMethod string, seconds float64) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome, paymentMethod).Inc()
	m.bookingLatency.Observe(seconds)
}

func (m *BookingMetrics) ObserveSlotConflict() {
	if m == nil {
		return
	}
	m.slotConflicts.Inc()
}

func (m *BookingMetrics) ObserveAvailability() {
	if m == nil {
		return
	}
	m.availabilityTotal.Inc()
}

func (m *BookingMetrics) ObserveTransition(to, outcome string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(to, outcome).Inc()
}
