package siteconfig

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/mercadito-backend/pkg/db/models"
)

// Repository reads and writes the singleton site configuration row.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context) (*models.SiteConfig, error)
	Upsert(ctx context.Context, cfg *models.SiteConfig) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a site config repository to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Get returns the stored configuration, or nil when the row does not exist yet.
func (r *repository) Get(ctx context.Context) (*models.SiteConfig, error) {
	var row models.SiteConfig
	err := r.db.WithContext(ctx).Where("id = ?", models.SiteConfigID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert writes the singleton row, creating it on first use.
func (r *repository) Upsert(ctx context.Context, cfg *models.SiteConfig) error {
	cfg.ID = models.SiteConfigID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"whatsapp_phone", "alias_or_cbu", "shipping_cost", "updated_at"}),
		}).
		Create(cfg).Error
}
