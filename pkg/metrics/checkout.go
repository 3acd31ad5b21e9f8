package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records the outcome of per-seller order placement.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	placed   *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_placement_duration_seconds",
		Help:    "Duration of per-seller order placement in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_placed",
		Help: "Sub-orders successfully written during checkout.",
	}, []string{"seller"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_failed",
		Help: "Sub-orders that failed to persist during checkout.",
	}, []string{"seller"})
	reg.MustRegister(duration, placed, failed)
	return &CheckoutMetrics{
		duration: duration,
		placed:   placed,
		failed:   failed,
	}
}

// ObserveDuration records how long a full checkout placement took.
func (c *CheckoutMetrics) ObserveDuration(result string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(result)).Observe(duration.Seconds())
}

// IncPlaced increments the placed counter for the given seller.
func (c *CheckoutMetrics) IncPlaced(seller string) {
	if c == nil || c.placed == nil {
		return
	}
	c.placed.WithLabelValues(normalizeLabel(seller)).Inc()
}

// IncFailed increments the failed counter for the given seller.
func (c *CheckoutMetrics) IncFailed(seller string) {
	if c == nil || c.failed == nil {
		return
	}
	c.failed.WithLabelValues(normalizeLabel(seller)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
