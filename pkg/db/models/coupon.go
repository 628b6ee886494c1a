package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/mercadito-backend/pkg/enums"
)

// Coupon is a promotional code. Codes are matched case-insensitively.
// UsageLimit nil means unlimited; otherwise UsageCount never exceeds it.
type Coupon struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Code        string           `gorm:"column:code;size:40;not null;uniqueIndex"`
	Type        enums.CouponType `gorm:"column:type;size:20;not null"`
	Amount      decimal.Decimal  `gorm:"column:amount;type:numeric(10,2);not null"`
	Percent     decimal.Decimal  `gorm:"column:percent;type:numeric(5,2);not null"`
	PercentCap  decimal.Decimal  `gorm:"column:percent_cap;type:numeric(10,2);not null"`
	MinSubtotal decimal.Decimal  `gorm:"column:min_subtotal;type:numeric(10,2);not null"`
	Active      bool             `gorm:"column:active;not null"`
	ExpiresAt   *time.Time       `gorm:"column:expires_at"`
	UsageLimit  *int             `gorm:"column:usage_limit"`
	UsageCount  int              `gorm:"column:usage_count;not null"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Coupon) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
