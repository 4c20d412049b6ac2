package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	bookingsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gymflow",
		Subsystem: "booking",
		Name:      "created_total",
		Help:      "Number of bookings successfully created.",
	})

	bookingsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymflow",
		Subsystem: "booking",
		Name:      "rejected_total",
		Help:      "Number of booking attempts rejected, grouped by reason.",
	}, []string{"reason"})

	bookingsCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gymflow",
		Subsystem: "booking",
		Name:      "cancelled_total",
		Help:      "Number of bookings cancelled.",
	})

	attendanceMarked = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gymflow",
		Subsystem: "booking",
		Name:      "attendance_total",
		Help:      "Number of genuine confirmed-to-attended transitions.",
	})

	pointsAwarded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymflow",
		Subsystem: "progress",
		Name:      "points_awarded_total",
		Help:      "XP points awarded per skill category.",
	}, []string{"category"})
)

func init() {
	prometheus.MustRegister(bookingsCreated, bookingsRejected, bookingsCancelled, attendanceMarked, pointsAwarded)
}

func RecordBookingCreated() { bookingsCreated.Inc() }

func RecordBookingRejected(reason string) { bookingsRejected.WithLabelValues(reason).Inc() }

func RecordBookingCancelled() { bookingsCancelled.Inc() }

func RecordAttendanceMarked() { attendanceMarked.Inc() }

func RecordPointsAwarded(category string, points int) {
	pointsAwarded.WithLabelValues(category).Add(float64(points))
}

// Handler exposes the prometheus registry as a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
