package controllers

import (
	"net/http"

	"github.com/angelmondragon/mercadito-backend/api/responses"
	"github.com/angelmondragon/mercadito-backend/api/validators"
	"github.com/angelmondragon/mercadito-backend/internal/siteconfig"
	pkgerrors "github.com/angelmondragon/mercadito-backend/pkg/errors"
	"github.com/angelmondragon/mercadito-backend/pkg/logger"
)

func GetSiteConfig(svc siteconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "site config service unavailable"))
			return
		}
		cfg, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}

// AdminUpdateSiteConfig replaces the storefront contact and shipping settings.
func AdminUpdateSiteConfig(svc siteconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "site config service unavailable"))
			return
		}

		var payload siteConfigRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shipping, err := validators.ParseDecimal("shipping_cost", payload.ShippingCost)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), siteconfig.UpdateInput{
			WhatsappPhone: validators.SanitizeString(payload.WhatsappPhone, 30),
			AliasOrCBU:    validators.SanitizeString(payload.AliasOrCBU, 60),
			ShippingCost:  *shipping,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

type siteConfigRequest struct {
	WhatsappPhone string `json:"whatsapp_phone" validate:"max=30"`
	AliasOrCBU    string `json:"alias_or_cbu" validate:"max=60"`
	ShippingCost  string `json:"shipping_cost" validate:"required"`
}
