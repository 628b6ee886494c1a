package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout outcomes used as label values.
const (
	OutcomeSuccess            = "success"
	OutcomeProductUnavailable = "product_unavailable"
	OutcomeInsufficientStock  = "insufficient_stock"
	OutcomeCouponInvalid      = "coupon_invalid"
	OutcomeValidation         = "validation"
	OutcomeError              = "error"
)

// CheckoutMetrics records order placement attempts.
type CheckoutMetrics struct {
	duration    *prometheus.HistogramVec
	orders      *prometheus.CounterVec
	redemptions *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_place_order_duration_seconds",
		Help:    "Duration of the order placement transaction in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_total",
		Help: "Order placement attempts by outcome.",
	}, []string{"outcome"})
	redemptions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_coupon_redemptions_total",
		Help: "Coupons applied to committed orders by coupon type.",
	}, []string{"type"})
	reg.MustRegister(duration, orders, redemptions)
	return &CheckoutMetrics{
		duration:    duration,
		orders:      orders,
		redemptions: redemptions,
	}
}

// ObservePlacement records one placement attempt and its duration.
func (c *CheckoutMetrics) ObservePlacement(outcome string, elapsed time.Duration) {
	if c == nil || c.orders == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	c.orders.WithLabelValues(outcome).Inc()
	c.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// IncRedemption counts a coupon applied to a committed order.
func (c *CheckoutMetrics) IncRedemption(couponType string) {
	if c == nil || c.redemptions == nil {
		return
	}
	c.redemptions.WithLabelValues(normalizeLabel(couponType)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
