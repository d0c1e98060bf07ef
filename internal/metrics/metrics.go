package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "party_status"

var (
	once sync.Once

	upstreamFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_fetches_total",
			Help:      "Appointment fetches against the scheduling API by result.",
		},
		[]string{"result"},
	)

	malformedBookings = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "malformed_bookings_total",
		Help:      "Bookings skipped during normalization.",
	})

	boardTicks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "board_ticks_total",
		Help:      "Slot evaluations performed by the board loop.",
	})

	occupiedSlots = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "occupied_slots",
		Help:      "Slots holding a party after the latest board tick.",
	})

	pushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_notifications_total",
			Help:      "Web push deliveries by result.",
		},
		[]string{"result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(upstreamFetches, malformedBookings, boardTicks, occupiedSlots, pushes)
	})
}

// IncFetch counts one upstream fetch; result is "ok" or "error".
func IncFetch(result string) {
	upstreamFetches.WithLabelValues(result).Inc()
}

// AddMalformed counts skipped bookings.
func AddMalformed(n int) {
	malformedBookings.Add(float64(n))
}

// ObserveTick records a board evaluation and how many slots were occupied.
func ObserveTick(occupied int) {
	boardTicks.Inc()
	occupiedSlots.Set(float64(occupied))
}

// IncPush counts one push delivery attempt.
func IncPush(result string) {
	pushes.WithLabelValues(result).Inc()
}
