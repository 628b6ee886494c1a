package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/mercadito-backend/pkg/db/models"
	"github.com/angelmondragon/mercadito-backend/pkg/enums"
)

// OrderDTO is the public representation of a committed order.
type OrderDTO struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Phone          string               `json:"phone"`
	Address        string               `json:"address"`
	Notes          string               `json:"notes"`
	PaymentMethod  enums.PaymentMethod  `json:"payment_method"`
	DeliveryMethod enums.DeliveryMethod `json:"delivery_method"`
	Subtotal       string               `json:"subtotal"`
	DiscountTotal  string               `json:"discount_total"`
	ShippingCost   string               `json:"shipping_cost"`
	Total          string               `json:"total"`
	CouponCode     string               `json:"coupon_code"`
	CreatedAt      time.Time            `json:"created_at"`
	Items          []OrderItemDTO       `json:"items"`
}

// OrderItemDTO is one line of an order with its unit price snapshot.
type OrderItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     string    `json:"price"`
}

// FromModel maps a persisted order (with items loaded) to its DTO.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:             o.ID,
		Name:           o.Name,
		Phone:          o.Phone,
		Address:        o.Address,
		Notes:          o.Notes,
		PaymentMethod:  o.PaymentMethod,
		DeliveryMethod: o.DeliveryMethod,
		Subtotal:       o.Subtotal.StringFixed(2),
		DiscountTotal:  o.DiscountTotal.StringFixed(2),
		ShippingCost:   o.ShippingCost.StringFixed(2),
		Total:          o.Total.StringFixed(2),
		CouponCode:     o.CouponCode,
		CreatedAt:      o.CreatedAt,
		Items:          make([]OrderItemDTO, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.StringFixed(2),
		})
	}
	return dto
}
