package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/mercadito-backend/api/controllers"
	"github.com/angelmondragon/mercadito-backend/api/middleware"
	"github.com/angelmondragon/mercadito-backend/internal/announcements"
	"github.com/angelmondragon/mercadito-backend/internal/catalog"
	"github.com/angelmondragon/mercadito-backend/internal/checkout"
	"github.com/angelmondragon/mercadito-backend/internal/coupons"
	"github.com/angelmondragon/mercadito-backend/internal/siteconfig"
	"github.com/angelmondragon/mercadito-backend/pkg/config"
	"github.com/angelmondragon/mercadito-backend/pkg/enums"
	"github.com/angelmondragon/mercadito-backend/pkg/logger"
	"github.com/angelmondragon/mercadito-backend/pkg/metrics"
)

// RateLimiter is the fixed-window counter backing the per-IP quotas.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Dependencies carries everything the HTTP surface is wired to.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       controllers.Pinger
	RateLimiter RateLimiter
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics

	Catalog       catalog.Service
	SiteConfig    siteconfig.Service
	Announcements announcements.Service
	Checkout      checkout.Service
	Coupons       coupons.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Authenticate(cfg.JWT, logg),
	)

	ordersPolicy := middleware.NewRateLimitPolicy("orders", cfg.RateLimit.OrdersWindow, cfg.RateLimit.OrdersLimit)
	couponPolicy := middleware.NewRateLimitPolicy("coupons", cfg.RateLimit.CouponWindow, cfg.RateLimit.CouponLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}, logg))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", controllers.ListCategories(deps.Catalog, logg))
		r.Get("/categories/{id}", controllers.GetCategory(deps.Catalog, logg))
		r.Get("/products", controllers.ListProducts(deps.Catalog, logg))
		r.Get("/products/{id}", controllers.GetProduct(deps.Catalog, logg))
		r.Get("/site-config", controllers.GetSiteConfig(deps.SiteConfig, logg))
		r.Get("/announcements", controllers.ListAnnouncements(deps.Announcements, logg))

		r.With(middleware.RateLimit(ordersPolicy, deps.RateLimiter, logg)).
			Post("/orders", controllers.CreateOrder(deps.Checkout, logg))

		r.Group(func(r chi.Router) {
			if cfg.Coupons.ValidateRequiresAuth {
				r.Use(middleware.RequireAuthenticated(logg))
			}
			r.Use(middleware.RateLimit(couponPolicy, deps.RateLimiter, logg))
			validate := controllers.ValidateCoupon(deps.Coupons, logg)
			r.Get("/coupons/validate", validate)
			r.Post("/coupons/validate", validate)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
			r.Put("/site-config", controllers.AdminUpdateSiteConfig(deps.SiteConfig, logg))
		})
	})

	return r
}
