// Package metrics exposes Prometheus instrumentation for the rental engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gearshare_bookings_created_total",
		Help: "Number of booking requests accepted into pending state.",
	})

	BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gearshare_booking_transitions_total",
		Help: "Booking state transitions by event and outcome.",
	}, []string{"event", "outcome"})

	AvailabilityConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gearshare_availability_conflicts_total",
		Help: "Availability check conflicts by rule.",
	}, []string{"type"})

	PaymentConfirmations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gearshare_payment_confirmations_total",
		Help: "Payment confirmation poll results by outcome.",
	}, []string{"outcome"})

	RefundsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gearshare_refunds_issued_total",
		Help: "Refunds issued by cancellation tier percentage.",
	}, []string{"percentage"})

	DepositsReleased = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gearshare_deposits_released_total",
		Help: "Damage deposits released back to renters.",
	})

	ClaimsFiled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gearshare_claims_filed_total",
		Help: "Damage claims filed by owners.",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gearshare_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)
