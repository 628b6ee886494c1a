package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mercadito-backend/api/responses"
	"github.com/angelmondragon/mercadito-backend/api/validators"
	"github.com/angelmondragon/mercadito-backend/internal/coupons"
	pkgerrors "github.com/angelmondragon/mercadito-backend/pkg/errors"
	"github.com/angelmondragon/mercadito-backend/pkg/logger"
)

// ValidateCoupon previews a coupon from the query string (GET) or a JSON body
// (POST). Neither form touches the usage counter.
func ValidateCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		var (
			code     string
			subtotal *decimal.Decimal
		)
		if r.Method == http.MethodPost {
			var payload validateCouponRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			code, subtotal = payload.Code, payload.Subtotal
		} else {
			parsed, err := validators.ParseQueryDecimal(r, "subtotal")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			code, subtotal = r.URL.Query().Get("code"), parsed
		}

		result, err := svc.Validate(r.Context(), code, subtotal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type validateCouponRequest struct {
	Code     string           `json:"code"`
	Subtotal *decimal.Decimal `json:"subtotal"`
}
