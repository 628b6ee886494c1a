package coupons

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mercadito-backend/internal/pricing"
	"github.com/angelmondragon/mercadito-backend/pkg/db/models"
)

// Reason explains why a coupon cannot be applied. The zero value means eligible.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonInactive    Reason = "inactive"
	ReasonExpired     Reason = "expired"
	ReasonUsageLimit  Reason = "usage_limit"
	ReasonMinSubtotal Reason = "min_subtotal"
)

// Evaluate applies the eligibility rules in order: active, not expired, usage
// below limit, subtotal at or above the minimum. Both order placement and the
// validation preview go through here.
func Evaluate(c *models.Coupon, subtotal decimal.Decimal, now time.Time) Reason {
	if c == nil || !c.Active {
		return ReasonInactive
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return ReasonExpired
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return ReasonUsageLimit
	}
	if subtotal.LessThan(c.MinSubtotal) {
		return ReasonMinSubtotal
	}
	return ReasonNone
}

// IsEligible reports whether the coupon can be applied to subtotal at now.
func IsEligible(c *models.Coupon, subtotal decimal.Decimal, now time.Time) bool {
	return Evaluate(c, subtotal, now) == ReasonNone
}

// Terms extracts the discount inputs of a coupon.
func Terms(c *models.Coupon) pricing.CouponTerms {
	return pricing.CouponTerms{
		Type:       c.Type,
		Amount:     c.Amount,
		Percent:    c.Percent,
		PercentCap: c.PercentCap,
	}
}
