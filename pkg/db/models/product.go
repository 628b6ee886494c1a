package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable catalog entry. Stock is only decremented by a
// committed order.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID    uuid.UUID           `gorm:"column:category_id;type:uuid;not null;index"`
	Category      *Category           `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Name          string              `gorm:"column:name;size:200;not null"`
	Description   string              `gorm:"column:description;not null"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	OfferPrice    decimal.NullDecimal `gorm:"column:offer_price;type:numeric(10,2)"`
	ImageURL      *string             `gorm:"column:image_url"`
	Stock         int                 `gorm:"column:stock;not null"`
	IsActive      bool                `gorm:"column:is_active;not null"`
	Promoted      bool                `gorm:"column:promoted;not null"`
	PromotedUntil *time.Time          `gorm:"column:promoted_until"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
