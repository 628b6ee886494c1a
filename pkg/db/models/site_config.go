package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SiteConfigID is the primary key of the singleton row.
const SiteConfigID = 1

// SiteConfig holds storefront contact details and the default shipping cost.
type SiteConfig struct {
	ID            int             `gorm:"column:id;primaryKey;autoIncrement:false"`
	WhatsappPhone string          `gorm:"column:whatsapp_phone;size:30;not null"`
	AliasOrCBU    string          `gorm:"column:alias_or_cbu;size:60;not null"`
	ShippingCost  decimal.Decimal `gorm:"column:shipping_cost;type:numeric(10,2);not null"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (SiteConfig) TableName() string {
	return "site_config"
}
