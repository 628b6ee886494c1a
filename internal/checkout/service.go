package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/mercadito-backend/internal/catalog"
	"github.com/angelmondragon/mercadito-backend/internal/coupons"
	"github.com/angelmondragon/mercadito-backend/internal/orders"
	"github.com/angelmondragon/mercadito-backend/internal/pricing"
	"github.com/angelmondragon/mercadito-backend/internal/siteconfig"
	"github.com/angelmondragon/mercadito-backend/pkg/db/models"
	"github.com/angelmondragon/mercadito-backend/pkg/enums"
	"github.com/angelmondragon/mercadito-backend/pkg/logger"
	"github.com/angelmondragon/mercadito-backend/pkg/metrics"
	"github.com/angelmondragon/mercadito-backend/pkg/outbox"
	"github.com/angelmondragon/mercadito-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service places storefront orders.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*orders.OrderDTO, error)
}

// Params wires the collaborators of the checkout service.
type Params struct {
	Tx         txRunner
	Catalog    catalog.Repository
	Coupons    coupons.Repository
	Orders     orders.Repository
	SiteConfig siteconfig.Repository
	Outbox     outboxPublisher
	Logger     *logger.Logger
	Metrics    *metrics.CheckoutMetrics
	Now        func() time.Time
}

type service struct {
	tx         txRunner
	catalog    catalog.Repository
	coupons    coupons.Repository
	orders     orders.Repository
	siteConfig siteconfig.Repository
	outbox     outboxPublisher
	logg       *logger.Logger
	metrics    *metrics.CheckoutMetrics
	now        func() time.Time
}

// NewService builds the checkout service.
func NewService(p Params) (Service, error) {
	if p.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if p.Catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if p.Coupons == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if p.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if p.SiteConfig == nil {
		return nil, fmt.Errorf("site config repository required")
	}
	if p.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &service{
		tx:         p.Tx,
		catalog:    p.Catalog,
		coupons:    p.Coupons,
		orders:     p.Orders,
		siteConfig: p.SiteConfig,
		outbox:     p.Outbox,
		logg:       p.Logger,
		metrics:    p.Metrics,
		now:        p.Now,
	}, nil
}

// placement is the state built up inside one order transaction.
type placement struct {
	lines    []line
	products map[uuid.UUID]*models.Product
	priced   []pricing.Line
	coupon   *models.Coupon
	quote    pricing.Quote
	order    *models.Order
}

// PlaceOrder validates the cart and commits the order, stock decrements and
// coupon usage as one transaction. Nothing is written when any step fails.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*orders.OrderDTO, error) {
	started := time.Now()
	lines, err := input.normalize()
	if err != nil {
		s.metrics.ObservePlacement(metrics.OutcomeValidation, time.Since(started))
		return nil, err
	}

	p := &placement{lines: lines}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.place(ctx, tx, input, p)
	})
	s.metrics.ObservePlacement(outcomeFor(err), time.Since(started))
	if err != nil {
		return nil, err
	}

	if p.coupon != nil {
		s.metrics.IncRedemption(string(p.coupon.Type))
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":        p.order.ID.String(),
		"total":           p.order.Total.StringFixed(2),
		"item_count":      len(p.order.Items),
		"delivery_method": p.order.DeliveryMethod,
		"coupon_code":     p.order.CouponCode,
	})
	s.logg.Info(logCtx, "order placed")

	return orders.FromModel(p.order), nil
}

func (s *service) place(ctx context.Context, tx *gorm.DB, input PlaceOrderInput, p *placement) error {
	catalogRepo := s.catalog.WithTx(tx)

	shipping, err := s.configuredShipping(ctx, tx, input.DeliveryMethod)
	if err != nil {
		return err
	}

	if err := s.lockProducts(ctx, catalogRepo, p); err != nil {
		return err
	}
	for _, l := range p.lines {
		product := p.products[l.productID]
		if product == nil || !product.IsActive {
			return productUnavailable(l.productID)
		}
		if l.quantity > product.Stock {
			return insufficientStock(product.Name, product.Stock)
		}
		p.priced = append(p.priced, pricing.Line{
			ProductID: product.ID,
			Quantity:  l.quantity,
			UnitPrice: pricing.UnitPrice(product.Price, product.OfferPrice),
		})
	}
	subtotal := pricing.Subtotal(p.priced)

	var terms *pricing.CouponTerms
	if input.CouponCode != "" {
		coupon, err := s.lockEligibleCoupon(ctx, tx, input.CouponCode, subtotal)
		if err != nil {
			return err
		}
		p.coupon = coupon
		t := coupons.Terms(coupon)
		terms = &t
	}

	for _, l := range p.lines {
		if err := catalogRepo.DecrementStock(ctx, l.productID, l.quantity); err != nil {
			if errors.Is(err, catalog.ErrStockConflict) {
				product := p.products[l.productID]
				return insufficientStock(product.Name, product.Stock)
			}
			return err
		}
	}
	if p.coupon != nil {
		if err := s.coupons.WithTx(tx).IncrementUsage(ctx, p.coupon.ID); err != nil {
			if errors.Is(err, coupons.ErrUsageExhausted) {
				return couponInvalid(err)
			}
			return err
		}
	}

	p.quote = pricing.Compute(p.priced, shipping, terms)
	p.order = buildOrder(input, p)
	if _, err := s.orders.WithTx(tx).Create(ctx, p.order); err != nil {
		return err
	}

	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   p.order.ID,
		Data: payloads.OrderCreatedEvent{
			OrderID:        p.order.ID,
			Total:          p.order.Total.StringFixed(2),
			ShippingCost:   p.order.ShippingCost.StringFixed(2),
			DiscountTotal:  p.order.DiscountTotal.StringFixed(2),
			ItemCount:      len(p.order.Items),
			CouponCode:     p.order.CouponCode,
			PaymentMethod:  p.order.PaymentMethod,
			DeliveryMethod: p.order.DeliveryMethod,
		},
	})
}

// configuredShipping reads the shipping cost from the site_config row, never
// from the cache.
func (s *service) configuredShipping(ctx context.Context, tx *gorm.DB, method enums.DeliveryMethod) (decimal.Decimal, error) {
	row, err := s.siteConfig.WithTx(tx).Get(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	configured := decimal.Zero
	if row != nil {
		configured = row.ShippingCost
	}
	return pricing.ResolveShipping(method, configured), nil
}

// lockProducts takes row locks in product id order so two carts naming the
// same products cannot deadlock. Missing products are left nil.
func (s *service) lockProducts(ctx context.Context, repo catalog.Repository, p *placement) error {
	ids := make([]uuid.UUID, 0, len(p.lines))
	for _, l := range p.lines {
		ids = append(ids, l.productID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	p.products = make(map[uuid.UUID]*models.Product, len(ids))
	for _, id := range ids {
		product, err := repo.FindProductForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				p.products[id] = nil
				continue
			}
			return err
		}
		p.products[id] = product
	}
	return nil
}

func (s *service) lockEligibleCoupon(ctx context.Context, tx *gorm.DB, code string, subtotal decimal.Decimal) (*models.Coupon, error) {
	coupon, err := s.coupons.WithTx(tx).FindByCodeForUpdate(ctx, code)
	if err != nil {
		if errors.Is(err, coupons.ErrNotFound) || errors.Is(err, coupons.ErrAmbiguous) {
			return nil, couponInvalid(err)
		}
		return nil, err
	}
	if reason := coupons.Evaluate(coupon, subtotal, s.now()); reason != coupons.ReasonNone {
		return nil, couponInvalid(fmt.Errorf("coupon %s", reason))
	}
	return coupon, nil
}

func buildOrder(input PlaceOrderInput, p *placement) *models.Order {
	order := &models.Order{
		Name:           input.Name,
		Phone:          input.Phone,
		Address:        input.Address,
		Notes:          input.Notes,
		PaymentMethod:  input.PaymentMethod,
		DeliveryMethod: input.DeliveryMethod,
		Subtotal:       p.quote.Subtotal,
		DiscountTotal:  p.quote.Discount,
		ShippingCost:   p.quote.ShippingCost,
		Total:          p.quote.Total,
		CouponCode:     storedCouponCode(input.CouponCode),
		Items:          make([]models.OrderItem, 0, len(p.priced)),
	}
	for i, l := range p.priced {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: l.ProductID,
			Position:  i,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice,
		})
	}
	return order
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case IsProductUnavailable(err):
		return metrics.OutcomeProductUnavailable
	case IsInsufficientStock(err):
		return metrics.OutcomeInsufficientStock
	case IsCouponInvalid(err):
		return metrics.OutcomeCouponInvalid
	default:
		return metrics.OutcomeError
	}
}
