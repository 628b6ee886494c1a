package checkout

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/angelmondragon/mercadito-backend/pkg/db/models"
	"github.com/angelmondragon/mercadito-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/mercadito-backend/pkg/errors"
)

const (
	maxNameLen    = 140
	maxPhoneLen   = 30
	maxAddressLen = 240

	// quantities are stored in integer columns
	maxLineQuantity = math.MaxInt32
)

// PlaceOrderInput is a storefront checkout request.
type PlaceOrderInput struct {
	Name           string
	Phone          string
	Address        string
	Notes          string
	PaymentMethod  enums.PaymentMethod
	DeliveryMethod enums.DeliveryMethod
	Items          []ItemInput
	CouponCode     string
}

// ItemInput is one cart entry as submitted, before consolidation.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

type line struct {
	productID uuid.UUID
	quantity  int
}

// normalize trims and validates the input and returns the consolidated lines.
func (in *PlaceOrderInput) normalize() ([]line, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.Notes = strings.TrimSpace(in.Notes)
	in.CouponCode = strings.TrimSpace(in.CouponCode)
	if in.DeliveryMethod == "" {
		in.DeliveryMethod = enums.DeliveryMethodDelivery
	}

	if err := requireText("name", in.Name, maxNameLen); err != nil {
		return nil, err
	}
	if err := requireText("phone", in.Phone, maxPhoneLen); err != nil {
		return nil, err
	}
	if err := requireText("address", in.Address, maxAddressLen); err != nil {
		return nil, err
	}
	if !in.PaymentMethod.IsValid() {
		return nil, pkgerrors.Field("payment_method", "Método de pago inválido")
	}
	if !in.DeliveryMethod.IsValid() {
		return nil, pkgerrors.Field("delivery_method", "Método de entrega inválido")
	}
	if len(in.Items) == 0 {
		return nil, pkgerrors.Field(fieldItems, "Debe incluir al menos un producto")
	}
	for _, item := range in.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.Field(fieldItems, "Producto requerido")
		}
		if item.Quantity < 1 {
			return nil, pkgerrors.Field(fieldItems, "La cantidad debe ser al menos 1")
		}
	}
	return consolidate(in.Items)
}

func requireText(field, value string, max int) error {
	if value == "" {
		return pkgerrors.Field(field, "Este campo es requerido")
	}
	if utf8.RuneCountInString(value) > max {
		return pkgerrors.Field(field, "Supera el largo máximo permitido")
	}
	return nil
}

// consolidate merges entries for the same product, summing quantities and
// keeping the position of the first occurrence. Summed quantities are capped
// at maxLineQuantity.
func consolidate(items []ItemInput) ([]line, error) {
	index := make(map[uuid.UUID]int, len(items))
	lines := make([]line, 0, len(items))
	for _, item := range items {
		if item.Quantity > maxLineQuantity {
			return nil, tooManyUnits()
		}
		if i, ok := index[item.ProductID]; ok {
			if lines[i].quantity > maxLineQuantity-item.Quantity {
				return nil, tooManyUnits()
			}
			lines[i].quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(lines)
		lines = append(lines, line{productID: item.ProductID, quantity: item.Quantity})
	}
	return lines, nil
}

func tooManyUnits() error {
	return pkgerrors.Field(fieldItems, "La cantidad supera el máximo permitido")
}

// storedCouponCode truncates the submitted code to the column width.
func storedCouponCode(code string) string {
	if utf8.RuneCountInString(code) <= models.CouponCodeMaxLen {
		return code
	}
	return string([]rune(code)[:models.CouponCodeMaxLen])
}
