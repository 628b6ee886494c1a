// Package pricing computes order money amounts. Everything here is pure: no
// storage, no clock, no logging.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mercadito-backend/pkg/enums"
)

const moneyPlaces = 2

// Line is one consolidated cart line priced at its unit price snapshot.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// Total returns unit price times quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CouponTerms is the subset of a coupon the discount rules read.
type CouponTerms struct {
	Type       enums.CouponType
	Amount     decimal.Decimal
	Percent    decimal.Decimal
	PercentCap decimal.Decimal
}

// Quote is the full money breakdown of an order.
type Quote struct {
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	ShippingCost decimal.Decimal
	Total        decimal.Decimal
}

// UnitPrice returns the effective selling price: the offer price when one is
// set and positive, otherwise the list price.
func UnitPrice(price decimal.Decimal, offer decimal.NullDecimal) decimal.Decimal {
	if offer.Valid && offer.Decimal.IsPositive() {
		return offer.Decimal
	}
	return price
}

// Subtotal sums line totals.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.Total())
	}
	return sum
}

// ResolveShipping returns zero for pickup and the configured cost otherwise.
func ResolveShipping(method enums.DeliveryMethod, configured decimal.Decimal) decimal.Decimal {
	if method == enums.DeliveryMethodPickup || configured.IsNegative() {
		return decimal.Zero
	}
	return configured
}

// Discount computes the money discount a coupon grants on subtotal. Fixed and
// percent discounts never exceed the subtotal; free shipping grants no money
// discount (see WaivesShipping).
func Discount(terms CouponTerms, subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch terms.Type {
	case enums.CouponTypeFixed:
		discount = decimal.Min(terms.Amount, subtotal)
	case enums.CouponTypePercent:
		discount = subtotal.Mul(terms.Percent).Div(decimal.NewFromInt(100)).Round(moneyPlaces)
		if terms.PercentCap.IsPositive() {
			discount = decimal.Min(discount, terms.PercentCap)
		}
		discount = decimal.Min(discount, subtotal)
	default:
		return decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}

// WaivesShipping reports whether the coupon forces shipping to zero.
func WaivesShipping(terms CouponTerms) bool {
	return terms.Type == enums.CouponTypeFreeShipping
}

// Compute builds the quote for the given lines, shipping and optional coupon.
// total = subtotal - discount + shipping.
func Compute(lines []Line, shipping decimal.Decimal, coupon *CouponTerms) Quote {
	q := Quote{
		Subtotal:     Subtotal(lines),
		Discount:     decimal.Zero,
		ShippingCost: shipping,
	}
	if coupon != nil {
		q.Discount = Discount(*coupon, q.Subtotal)
		if WaivesShipping(*coupon) {
			q.ShippingCost = decimal.Zero
		}
	}
	q.Total = q.Subtotal.Sub(q.Discount).Add(q.ShippingCost)
	return q
}
