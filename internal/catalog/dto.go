package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/mercadito-backend/pkg/db/models"
	"github.com/angelmondragon/mercadito-backend/pkg/pagination"
)

// CategoryDTO is the public category shape.
type CategoryDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	ImageURL *string   `json:"image"`
}

// ProductDTO is the public product shape. Money is rendered with two decimals.
type ProductDTO struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         string       `json:"price"`
	OfferPrice    *string      `json:"offer_price"`
	ImageURL      *string      `json:"image"`
	Stock         int          `json:"stock"`
	IsActive      bool         `json:"is_active"`
	Promoted      bool         `json:"promoted"`
	PromotedUntil *time.Time   `json:"promoted_until"`
	Category      *CategoryDTO `json:"category"`
}

// ProductPage is one page of the product listing.
type ProductPage struct {
	Results []ProductDTO    `json:"results"`
	Meta    pagination.Meta `json:"meta"`
}

// ProductFilters are the listing knobs supported by the storefront.
type ProductFilters struct {
	CategoryID *uuid.UUID
	Promoted   *bool
	Search     string
	Ordering   string
}

func categoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:       c.ID,
		Name:     c.Name,
		Slug:     c.Slug,
		ImageURL: c.ImageURL,
	}
}

func productFromModel(p models.Product) ProductDTO {
	dto := ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price.StringFixed(2),
		ImageURL:      p.ImageURL,
		Stock:         p.Stock,
		IsActive:      p.IsActive,
		Promoted:      p.Promoted,
		PromotedUntil: p.PromotedUntil,
		Category:      categoryFromModel(p.Category),
	}
	if p.OfferPrice.Valid {
		offer := p.OfferPrice.Decimal.StringFixed(2)
		dto.OfferPrice = &offer
	}
	return dto
}
