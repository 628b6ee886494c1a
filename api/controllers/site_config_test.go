package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mercadito-backend/internal/siteconfig"
	"github.com/angelmondragon/mercadito-backend/pkg/config"
)

type stubSiteConfigService struct {
	got   *siteconfig.UpdateInput
	value siteconfig.DTO
}

func (s *stubSiteConfigService) Get(context.Context) (siteconfig.DTO, error) {
	return s.value, nil
}

func (s *stubSiteConfigService) Update(_ context.Context, input siteconfig.UpdateInput) (siteconfig.DTO, error) {
	s.got = &input
	return siteconfig.DTO{ShippingCost: input.ShippingCost.StringFixed(2)}, nil
}

func TestGetSiteConfigDefaults(t *testing.T) {
	svc := &stubSiteConfigService{value: siteconfig.Default()}
	rec := httptest.NewRecorder()
	GetSiteConfig(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/site-config", nil))

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["shipping_cost"] != "0.00" || data["whatsapp_phone"] != "" {
		t.Fatalf("unexpected defaults %v", data)
	}
	if v, ok := data["updated_at"]; !ok || v != nil {
		t.Fatalf("expected null updated_at, got %v", data)
	}
}

func TestAdminUpdateSiteConfig(t *testing.T) {
	svc := &stubSiteConfigService{}
	body := `{"whatsapp_phone":" 5491100000000 ","alias_or_cbu":"mercadito.mp","shipping_cost":"750.5"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/site-config", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AdminUpdateSiteConfig(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.got == nil || svc.got.WhatsappPhone != "5491100000000" {
		t.Fatalf("unexpected input %+v", svc.got)
	}
	if !svc.got.ShippingCost.Equal(decimal.RequireFromString("750.5")) {
		t.Fatalf("unexpected shipping cost %s", svc.got.ShippingCost)
	}
}

func TestAdminUpdateSiteConfigRejectsBadInput(t *testing.T) {
	for name, body := range map[string]string{
		"bad decimal":      `{"shipping_cost":"free"}`,
		"missing shipping": `{"whatsapp_phone":"1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := &stubSiteConfigService{}
			req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/site-config", strings.NewReader(body))
			rec := httptest.NewRecorder()
			AdminUpdateSiteConfig(svc, testLogger()).ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if svc.got != nil {
				t.Fatalf("service must not be called")
			}
		})
	}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{}

	rec := httptest.NewRecorder()
	HealthReady(cfg, map[string]Pinger{"db": stubPinger{}, "redis": stubPinger{}}, testLogger()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	HealthReady(cfg, map[string]Pinger{"db": stubPinger{}, "redis": stubPinger{err: errors.New("down")}}, testLogger()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
