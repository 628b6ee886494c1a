package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/mercadito-backend/api/responses"
	"github.com/angelmondragon/mercadito-backend/api/validators"
	"github.com/angelmondragon/mercadito-backend/internal/checkout"
	"github.com/angelmondragon/mercadito-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/mercadito-backend/pkg/errors"
	"github.com/angelmondragon/mercadito-backend/pkg/logger"
)

// CreateOrder places a storefront order. Field rules are enforced by the
// checkout service.
func CreateOrder(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type createOrderRequest struct {
	Name           string               `json:"name"`
	Phone          string               `json:"phone"`
	Address        string               `json:"address"`
	Notes          string               `json:"notes"`
	PaymentMethod  enums.PaymentMethod  `json:"payment_method"`
	DeliveryMethod enums.DeliveryMethod `json:"delivery_method"`
	Items          []orderItemRequest   `json:"items"`
	CouponCode     string               `json:"coupon_code"`
}

type orderItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func (p createOrderRequest) toInput() checkout.PlaceOrderInput {
	items := make([]checkout.ItemInput, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, checkout.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return checkout.PlaceOrderInput{
		Name:           p.Name,
		Phone:          p.Phone,
		Address:        p.Address,
		Notes:          p.Notes,
		PaymentMethod:  p.PaymentMethod,
		DeliveryMethod: p.DeliveryMethod,
		Items:          items,
		CouponCode:     p.CouponCode,
	}
}
