package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/mercadito-backend/pkg/enums"
)

// CouponCodeMaxLen bounds the persisted coupon_code column.
const CouponCodeMaxLen = 40

// Order is the committed customer order header.
type Order struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Name           string               `gorm:"column:name;size:140;not null"`
	Phone          string               `gorm:"column:phone;size:30;not null"`
	Address        string               `gorm:"column:address;size:240;not null"`
	Notes          string               `gorm:"column:notes;not null"`
	PaymentMethod  enums.PaymentMethod  `gorm:"column:payment_method;size:20;not null"`
	DeliveryMethod enums.DeliveryMethod `gorm:"column:delivery_method;size:20;not null"`
	Subtotal       decimal.Decimal      `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DiscountTotal  decimal.Decimal      `gorm:"column:discount_total;type:numeric(12,2);not null"`
	ShippingCost   decimal.Decimal      `gorm:"column:shipping_cost;type:numeric(10,2);not null"`
	Total          decimal.Decimal      `gorm:"column:total;type:numeric(12,2);not null"`
	CouponCode     string               `gorm:"column:coupon_code;size:40;not null"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	Items          []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem snapshots the unit price paid for one distinct product. Position
// keeps the order in which products first appeared in the cart.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ux_order_items_order_product"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_order_items_order_product"`
	Product   *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	Position  int             `gorm:"column:position;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
