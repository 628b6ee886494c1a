package metrics

import "github.com/prometheus/client_golang/prometheus"

// CouponMetrics records coupon preview validations.
type CouponMetrics struct {
	results *prometheus.CounterVec
}

// NewCouponMetrics registers the coupon metrics on the provided registerer.
func NewCouponMetrics(reg prometheus.Registerer) *CouponMetrics {
	if reg == nil {
		return &CouponMetrics{}
	}
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_validations_total",
		Help: "Coupon preview validations by result.",
	}, []string{"result"})
	reg.MustRegister(results)
	return &CouponMetrics{results: results}
}

// IncResult counts a validation outcome ("valid", "not_found", or an ineligibility reason).
func (c *CouponMetrics) IncResult(result string) {
	if c == nil || c.results == nil {
		return
	}
	c.results.WithLabelValues(normalizeLabel(result)).Inc()
}
