package coupons

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/mercadito-backend/pkg/db/models"
)

var (
	// ErrNotFound is returned when no coupon matches the code.
	ErrNotFound = errors.New("coupon not found")
	// ErrAmbiguous is returned when more than one coupon matches case-insensitively.
	ErrAmbiguous = errors.New("coupon code matches more than one coupon")
	// ErrUsageExhausted is returned when the guarded usage increment touches no row.
	ErrUsageExhausted = errors.New("coupon usage limit reached")
)

// Repository exposes coupon persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	FindByCodeForUpdate(ctx context.Context, code string) (*models.Coupon, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a coupon repository to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindByCode returns the single coupon whose code matches case-insensitively.
func (r *repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return r.findByCode(ctx, code, false)
}

// FindByCodeForUpdate is FindByCode holding a row lock until the transaction ends.
func (r *repository) FindByCodeForUpdate(ctx context.Context, code string) (*models.Coupon, error) {
	return r.findByCode(ctx, code, true)
}

func (r *repository) findByCode(ctx context.Context, code string, lock bool) (*models.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrNotFound
	}

	query := r.db.WithContext(ctx).
		Where("LOWER(code) = LOWER(?)", code).
		Order("id").
		Limit(2)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var matches []models.Coupon
	if err := query.Find(&matches).Error; err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &matches[0], nil
	default:
		return nil, ErrAmbiguous
	}
}

// IncrementUsage bumps usage_count by one unless the usage limit is already reached.
func (r *repository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrUsageExhausted
	}
	return nil
}
