package siteconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/mercadito-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/mercadito-backend/pkg/errors"
	"github.com/angelmondragon/mercadito-backend/pkg/logger"
	"github.com/angelmondragon/mercadito-backend/pkg/redis"
)

// CacheName is the cache entry holding the public payload.
const CacheName = "site_config"

// DTO is the public site configuration payload.
type DTO struct {
	WhatsappPhone string     `json:"whatsapp_phone"`
	AliasOrCBU    string     `json:"alias_or_cbu"`
	ShippingCost  string     `json:"shipping_cost"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// UpdateInput replaces the editable fields of the configuration.
type UpdateInput struct {
	WhatsappPhone string
	AliasOrCBU    string
	ShippingCost  decimal.Decimal
}

type cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(name string) string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service serves the cached public configuration and applies admin updates.
type Service interface {
	Get(ctx context.Context) (DTO, error)
	Update(ctx context.Context, input UpdateInput) (DTO, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	cache cache
	ttl   time.Duration
	logg  *logger.Logger
}

// NewService builds the site config service.
func NewService(repo Repository, tx txRunner, c cache, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("site config repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if c == nil {
		return nil, fmt.Errorf("cache required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, tx: tx, cache: c, ttl: ttl, logg: logg}, nil
}

// Default is the payload served before any configuration is stored.
func Default() DTO {
	return DTO{ShippingCost: decimal.Zero.StringFixed(2)}
}

func fromModel(row *models.SiteConfig) DTO {
	if row == nil {
		return Default()
	}
	updated := row.UpdatedAt
	return DTO{
		WhatsappPhone: row.WhatsappPhone,
		AliasOrCBU:    row.AliasOrCBU,
		ShippingCost:  row.ShippingCost.StringFixed(2),
		UpdatedAt:     &updated,
	}
}

// Get serves the cached payload, refilling the cache from the database on a
// miss. Cache failures degrade to a direct read.
func (s *service) Get(ctx context.Context) (DTO, error) {
	key := s.cache.CacheKey(CacheName)

	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var dto DTO
		if jsonErr := json.Unmarshal([]byte(raw), &dto); jsonErr == nil {
			return dto, nil
		}
		s.logg.Warn(ctx, "discarding undecodable site config cache entry")
	case !redis.IsMiss(err):
		s.logg.Error(ctx, "site config cache read failed", err)
	}

	row, err := s.repo.Get(ctx)
	if err != nil {
		return DTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load site config")
	}
	dto := fromModel(row)

	if payload, err := json.Marshal(dto); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
			s.logg.Error(ctx, "site config cache write failed", err)
		}
	}
	return dto, nil
}

// Update upserts the configuration and drops the cached copy before the write
// commits, so no reader can observe the old payload after the update returns.
func (s *service) Update(ctx context.Context, input UpdateInput) (DTO, error) {
	if input.ShippingCost.IsNegative() {
		return DTO{}, pkgerrors.Field("shipping_cost", "El costo de envío no puede ser negativo")
	}

	row := &models.SiteConfig{
		WhatsappPhone: input.WhatsappPhone,
		AliasOrCBU:    input.AliasOrCBU,
		ShippingCost:  input.ShippingCost.Round(2),
		UpdatedAt:     time.Now().UTC(),
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Upsert(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save site config")
		}
		if err := s.cache.Del(ctx, s.cache.CacheKey(CacheName)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "invalidate site config cache")
		}
		return nil
	})
	if err != nil {
		return DTO{}, err
	}

	s.logg.Info(ctx, "site config cache invalidated")
	return fromModel(row), nil
}
