package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/mercadito-backend/pkg/errors"
	"github.com/angelmondragon/mercadito-backend/pkg/logger"
	"github.com/angelmondragon/mercadito-backend/pkg/metrics"
)

const moneyPlaces = 2

// ValidationResult is the public preview of a coupon. Bookkeeping fields
// (active flag, usage counters, stored code) are never part of it.
type ValidationResult struct {
	Valid       bool    `json:"valid"`
	Reason      string  `json:"reason,omitempty"`
	Type        *string `json:"type,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	Percent     *string `json:"percent,omitempty"`
	PercentCap  *string `json:"percent_cap,omitempty"`
	MinSubtotal *string `json:"min_subtotal,omitempty"`
}

// Service previews coupon eligibility without mutating usage.
type Service interface {
	Validate(ctx context.Context, code string, subtotal *decimal.Decimal) (ValidationResult, error)
}

type service struct {
	repo    Repository
	now     func() time.Time
	logg    *logger.Logger
	metrics *metrics.CouponMetrics
}

// NewService builds the coupon preview service. now and logg default to
// time.Now and a no-op logger when nil.
func NewService(repo Repository, now func() time.Time, logg *logger.Logger, m *metrics.CouponMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if now == nil {
		now = time.Now
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, now: now, logg: logg, metrics: m}, nil
}

// Validate resolves code and evaluates it against subtotal. A missing subtotal
// is evaluated as zero so it can never skip the minimum-subtotal floor.
func (s *service) Validate(ctx context.Context, code string, subtotal *decimal.Decimal) (ValidationResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return ValidationResult{}, pkgerrors.Field("code", "Código requerido")
	}

	amount := decimal.Zero
	if subtotal != nil {
		amount = *subtotal
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAmbiguous) {
			s.metrics.IncResult("not_found")
			return ValidationResult{Valid: false}, nil
		}
		return ValidationResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup coupon")
	}

	switch reason := Evaluate(coupon, amount, s.now()); reason {
	case ReasonNone:
	case ReasonInactive:
		s.metrics.IncResult("not_found")
		return ValidationResult{Valid: false}, nil
	default:
		s.metrics.IncResult(string(reason))
		return ValidationResult{Valid: false, Reason: string(reason)}, nil
	}

	s.metrics.IncResult("valid")
	s.logg.Debug(s.logg.WithField(ctx, "coupon_type", coupon.Type.String()), "coupon validated")

	return ValidationResult{
		Valid:       true,
		Type:        strPtr(coupon.Type.String()),
		Amount:      money(coupon.Amount),
		Percent:     money(coupon.Percent),
		PercentCap:  money(coupon.PercentCap),
		MinSubtotal: money(coupon.MinSubtotal),
	}, nil
}

func money(d decimal.Decimal) *string {
	return strPtr(d.StringFixed(moneyPlaces))
}

func strPtr(v string) *string {
	return &v
}
