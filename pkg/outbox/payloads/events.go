package payloads

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/mercadito-backend/pkg/enums"
)

// OrderCreatedEvent signals a committed storefront order.
type OrderCreatedEvent struct {
	OrderID        uuid.UUID            `json:"order_id"`
	Total          string               `json:"total"`
	ShippingCost   string               `json:"shipping_cost"`
	DiscountTotal  string               `json:"discount_total"`
	ItemCount      int                  `json:"item_count"`
	CouponCode     string               `json:"coupon_code,omitempty"`
	PaymentMethod  enums.PaymentMethod  `json:"payment_method"`
	DeliveryMethod enums.DeliveryMethod `json:"delivery_method"`
}
