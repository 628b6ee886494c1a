package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mercadito-backend/internal/coupons"
)

type stubCouponService struct {
	code     string
	subtotal *decimal.Decimal
	result   coupons.ValidationResult
	err      error
}

func (s *stubCouponService) Validate(_ context.Context, code string, subtotal *decimal.Decimal) (coupons.ValidationResult, error) {
	s.code = code
	s.subtotal = subtotal
	return s.result, s.err
}

func TestValidateCouponFromQuery(t *testing.T) {
	kind := "fixed"
	svc := &stubCouponService{result: coupons.ValidationResult{Valid: true, Type: &kind}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/coupons/validate?code=PROMO&subtotal=25.50", nil)
	rec := httptest.NewRecorder()
	ValidateCoupon(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.code != "PROMO" {
		t.Fatalf("expected code PROMO, got %q", svc.code)
	}
	if svc.subtotal == nil || !svc.subtotal.Equal(decimal.RequireFromString("25.50")) {
		t.Fatalf("unexpected subtotal %v", svc.subtotal)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["valid"] != true || data["type"] != "fixed" {
		t.Fatalf("unexpected payload %v", data)
	}
}

func TestValidateCouponWithoutSubtotal(t *testing.T) {
	svc := &stubCouponService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/coupons/validate?code=PROMO", nil)
	rec := httptest.NewRecorder()
	ValidateCoupon(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.subtotal != nil {
		t.Fatalf("absent subtotal must reach the service as nil")
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["valid"] != false {
		t.Fatalf("expected invalid result, got %v", data)
	}
	if _, ok := data["type"]; ok {
		t.Fatalf("invalid result must not expose coupon terms: %v", data)
	}
}

func TestValidateCouponRejectsBadSubtotal(t *testing.T) {
	svc := &stubCouponService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/coupons/validate?code=PROMO&subtotal=abc", nil)
	rec := httptest.NewRecorder()
	ValidateCoupon(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.code != "" {
		t.Fatalf("service must not be called")
	}
}

func TestValidateCouponFromBody(t *testing.T) {
	svc := &stubCouponService{}
	for _, body := range []string{`{"code":"PROMO","subtotal":"40"}`, `{"code":"PROMO","subtotal":40}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/coupons/validate", strings.NewReader(body))
		rec := httptest.NewRecorder()
		ValidateCoupon(svc, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", body, rec.Code)
		}
		if svc.subtotal == nil || !svc.subtotal.Equal(decimal.NewFromInt(40)) {
			t.Fatalf("unexpected subtotal %v for %s", svc.subtotal, body)
		}
	}
}
