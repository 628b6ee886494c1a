package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/mercadito-backend/pkg/db/models"
	"github.com/angelmondragon/mercadito-backend/pkg/pagination"
)

// ErrStockConflict is returned when a guarded stock decrement touches no row.
var ErrStockConflict = errors.New("stock changed concurrently")

var orderingColumns = map[string]string{
	"name":        "name",
	"price":       "price",
	"offer_price": "offer_price",
	"created_at":  "created_at",
}

const defaultOrdering = "name"

// Repository exposes catalog persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) ([]models.Product, int64, error)
	FindActiveProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
	ExpirePromotions(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a catalog repository to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListProducts returns one page of active products plus the total match count.
func (r *repository) ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Promoted != nil {
		query = query.Where("promoted = ?", *filters.Promoted)
	}
	if term := strings.ToLower(strings.TrimSpace(filters.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}

	var count int64
	if err := query.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Preload("Category").
		Order(orderClause(filters.Ordering)).
		Order("id").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}

// orderClause maps an ordering parameter ("price", "-created_at") to a whitelisted column.
func orderClause(ordering string) clause.OrderByColumn {
	ordering = strings.TrimSpace(ordering)
	desc := strings.HasPrefix(ordering, "-")
	column, ok := orderingColumns[strings.TrimPrefix(ordering, "-")]
	if !ok {
		column, desc = defaultOrdering, false
	}
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}
}

func (r *repository) FindActiveProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND is_active = ?", id, true).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindProductForUpdate loads a product regardless of is_active, holding a row
// lock until the surrounding transaction ends.
func (r *repository) FindProductForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// DecrementStock subtracts qty only while enough stock remains.
func (r *repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrStockConflict
	}
	return nil
}

// ExpirePromotions clears the promoted flag of products whose promotion window
// ended before now.
func (r *repository) ExpirePromotions(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("promoted = ? AND promoted_until IS NOT NULL AND promoted_until < ?", true, now).
		UpdateColumn("promoted", false)
	return res.RowsAffected, res.Error
}
