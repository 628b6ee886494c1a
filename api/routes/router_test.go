package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mercadito-backend/internal/announcements"
	"github.com/angelmondragon/mercadito-backend/internal/catalog"
	"github.com/angelmondragon/mercadito-backend/internal/checkout"
	"github.com/angelmondragon/mercadito-backend/internal/coupons"
	"github.com/angelmondragon/mercadito-backend/internal/orders"
	"github.com/angelmondragon/mercadito-backend/internal/siteconfig"
	pkgAuth "github.com/angelmondragon/mercadito-backend/pkg/auth"
	"github.com/angelmondragon/mercadito-backend/pkg/config"
	"github.com/angelmondragon/mercadito-backend/pkg/enums"
	"github.com/angelmondragon/mercadito-backend/pkg/logger"
	"github.com/angelmondragon/mercadito-backend/pkg/metrics"
	"github.com/angelmondragon/mercadito-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubLimiter struct{ allow bool }

func (l stubLimiter) FixedWindowAllow(context.Context, string, int64, time.Duration) (bool, int64, error) {
	return l.allow, 1, nil
}

type stubCatalog struct{}

func (stubCatalog) ListCategories(context.Context) ([]catalog.CategoryDTO, error) {
	return []catalog.CategoryDTO{}, nil
}

func (stubCatalog) GetCategory(context.Context, uuid.UUID) (*catalog.CategoryDTO, error) {
	return &catalog.CategoryDTO{}, nil
}

func (stubCatalog) ListProducts(_ context.Context, _ catalog.ProductFilters, p pagination.Params) (*catalog.ProductPage, error) {
	return &catalog.ProductPage{Results: []catalog.ProductDTO{}, Meta: pagination.NewMeta(p, 0)}, nil
}

func (stubCatalog) GetProduct(context.Context, uuid.UUID) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

type stubSiteConfig struct{}

func (stubSiteConfig) Get(context.Context) (siteconfig.DTO, error) { return siteconfig.Default(), nil }

func (stubSiteConfig) Update(_ context.Context, in siteconfig.UpdateInput) (siteconfig.DTO, error) {
	return siteconfig.DTO{ShippingCost: in.ShippingCost.StringFixed(2)}, nil
}

type stubAnnouncements struct{}

func (stubAnnouncements) ListActive(context.Context) ([]announcements.DTO, error) {
	return []announcements.DTO{}, nil
}

type stubCheckout struct{}

func (stubCheckout) PlaceOrder(context.Context, checkout.PlaceOrderInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: uuid.New()}, nil
}

type stubCoupons struct{}

func (stubCoupons) Validate(context.Context, string, *decimal.Decimal) (coupons.ValidationResult, error) {
	return coupons.ValidationResult{Valid: false}, nil
}

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "mercadito", ExpirationMinutes: 60}

func testRouter(t *testing.T, requireCouponAuth, allow bool) http.Handler {
	t.Helper()
	cfg := &config.Config{
		App:     config.AppConfig{Env: "test"},
		JWT:     testJWT,
		Coupons: config.CouponsConfig{ValidateRequiresAuth: requireCouponAuth},
		RateLimit: config.RateLimitConfig{
			OrdersWindow: time.Minute, OrdersLimit: 10,
			CouponWindow: time.Minute, CouponLimit: 20,
		},
	}
	reg := prometheus.NewRegistry()
	router := NewRouter(Dependencies{
		Config:        cfg,
		Logger:        logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:            stubPinger{},
		Redis:         stubPinger{},
		RateLimiter:   stubLimiter{allow: allow},
		Gatherer:      reg,
		HTTPMetrics:   metrics.NewHTTPMetrics(reg),
		Catalog:       stubCatalog{},
		SiteConfig:    stubSiteConfig{},
		Announcements: stubAnnouncements{},
		Checkout:      stubCheckout{},
		Coupons:       stubCoupons{},
	})
	return router
}

func bearer(t *testing.T, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWT, time.Now(), pkgAuth.AccessTokenPayload{Subject: "user-1", Role: role})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func do(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	router := testRouter(t, true, true)
	for _, path := range []string{
		"/health/live",
		"/health/ready",
		"/api/v1/categories",
		"/api/v1/categories/" + uuid.NewString(),
		"/api/v1/products",
		"/api/v1/products/" + uuid.NewString(),
		"/api/v1/site-config",
		"/api/v1/announcements",
	} {
		if rec := do(router, http.MethodGet, path, "", ""); rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestCreateOrderRoute(t *testing.T) {
	router := testRouter(t, true, true)
	if rec := do(router, http.MethodPost, "/api/v1/orders", "", `{}`); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestCreateOrderRateLimited(t *testing.T) {
	router := testRouter(t, true, false)
	rec := do(router, http.MethodPost, "/api/v1/orders", "", `{}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After header, got %q", rec.Header().Get("Retry-After"))
	}
}

func TestCouponValidateAuthentication(t *testing.T) {
	router := testRouter(t, true, true)
	if rec := do(router, http.MethodGet, "/api/v1/coupons/validate?code=X", "", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("anonymous: expected 403, got %d", rec.Code)
	}
	token := bearer(t, enums.RoleCustomer)
	if rec := do(router, http.MethodGet, "/api/v1/coupons/validate?code=X", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("customer GET: expected 200, got %d", rec.Code)
	}
	if rec := do(router, http.MethodPost, "/api/v1/coupons/validate", token, `{"code":"X"}`); rec.Code != http.StatusOK {
		t.Fatalf("customer POST: expected 200, got %d", rec.Code)
	}

	open := testRouter(t, false, true)
	if rec := do(open, http.MethodGet, "/api/v1/coupons/validate?code=X", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("open validation: expected 200, got %d", rec.Code)
	}
}

func TestAdminSiteConfigRequiresAdmin(t *testing.T) {
	router := testRouter(t, true, true)
	body := `{"shipping_cost":"10"}`

	if rec := do(router, http.MethodPut, "/api/v1/admin/site-config", "", body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}
	if rec := do(router, http.MethodPut, "/api/v1/admin/site-config", bearer(t, enums.RoleCustomer), body); rec.Code != http.StatusForbidden {
		t.Fatalf("customer: expected 403, got %d", rec.Code)
	}
	if rec := do(router, http.MethodPut, "/api/v1/admin/site-config", bearer(t, enums.RoleAdmin), body); rec.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", rec.Code)
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	router := testRouter(t, true, true)
	if rec := do(router, http.MethodGet, "/api/v1/products", "garbage", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(t, true, true)
	do(router, http.MethodGet, "/api/v1/products/"+uuid.NewString(), "", "")

	rec := do(router, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `route="/api/v1/products/{id}"`) {
		t.Fatalf("expected route-labelled request metric, got:\n%s", rec.Body.String())
	}
}
