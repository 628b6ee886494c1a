package checkout

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/mercadito-backend/pkg/errors"
)

// Causes carried by checkout validation errors. Match them with errors.Is or
// the Is helpers below.
var (
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrCouponInvalid      = errors.New("coupon invalid")
)

const (
	fieldItems  = "items"
	fieldCoupon = "coupon_code"
)

func productUnavailable(id uuid.UUID) error {
	return pkgerrors.FieldWrap(ErrProductUnavailable, fieldItems, fmt.Sprintf("Producto %s inválido", id))
}

func insufficientStock(name string, available int) error {
	return pkgerrors.FieldWrap(ErrInsufficientStock, fieldItems, fmt.Sprintf("Sin stock suficiente para %s (disponible: %d)", name, available))
}

func couponInvalid(cause error) error {
	if cause == nil {
		cause = ErrCouponInvalid
	} else {
		cause = fmt.Errorf("%w: %w", ErrCouponInvalid, cause)
	}
	return pkgerrors.FieldWrap(cause, fieldCoupon, "Cupón inválido")
}

// IsProductUnavailable reports whether a cart line named a missing or inactive product.
func IsProductUnavailable(err error) bool { return errors.Is(err, ErrProductUnavailable) }

// IsInsufficientStock reports whether a consolidated line exceeded the product stock.
func IsInsufficientStock(err error) bool { return errors.Is(err, ErrInsufficientStock) }

// IsCouponInvalid reports whether the submitted coupon was unknown, inactive or ineligible.
func IsCouponInvalid(err error) bool { return errors.Is(err, ErrCouponInvalid) }
