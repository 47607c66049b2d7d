package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shieldwrapindia/shieldwrap-backend/api/controllers"
	"github.com/shieldwrapindia/shieldwrap-backend/api/middleware"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/admins"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/auth"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/certificates"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/leads"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/products"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/resolver"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/settings"
	"github.com/shieldwrapindia/shieldwrap-backend/internal/warranties"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/auth/session"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/config"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/enums"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/redis"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/storage/gcs"
)

// RouterParams wires every service the HTTP surface depends on.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	GCS      gcs.Pinger
	Sessions session.AccessSessionChecker

	Auth       auth.Service
	Settings   settings.Service
	Products   products.Service
	Warranties warranties.Service
	Exporter   *warranties.Exporter
	Resolver   resolver.Service
	Renderer   *certificates.Renderer
	Leads      leads.Service
	Admins     admins.Service
}

// NewRouter assembles the public and admin route trees.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(p)))
	})

	r.Route("/api/public", func(r chi.Router) {
		if p.Redis != nil {
			r.Use(middleware.Idempotency(p.Redis, logg))
		}

		r.Get("/site-config", controllers.SiteConfig(p.Settings, logg))
		r.Get("/products", controllers.ProductList(p.Products, logg))
		r.Get("/products/{slug}", controllers.ProductDetail(p.Products, logg))
		r.Post("/leads", controllers.LeadCreate(p.Leads, logg))

		r.Route("/warranty", func(r chi.Router) {
			r.Post("/", controllers.WarrantyRegister(p.Warranties, cfg.Uploads, logg))
			r.Get("/lookup", controllers.WarrantyLookup(p.Resolver, logg))
			r.Get("/certificate", controllers.WarrantyCertificate(p.Resolver, p.Renderer, cfg.Certificate, logg))
		})
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		login := r
		if p.Redis != nil {
			login = r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg))
		}
		login.Post("/login", controllers.AuthLogin(p.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(p.Auth, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
		if p.Redis != nil {
			r.Use(middleware.Idempotency(p.Redis, logg))
		}

		r.Get("/me", controllers.Me())

		r.Route("/warranties", func(r chi.Router) {
			r.Get("/", controllers.WarrantyList(p.Warranties, logg))
			r.Get("/export", controllers.WarrantyExport(p.Exporter, logg))
			r.Get("/{id}", controllers.WarrantyDetail(p.Warranties, logg))
			r.Patch("/{id}", controllers.WarrantyUpdate(p.Warranties, logg))
			r.Delete("/{id}", controllers.WarrantyDelete(p.Warranties, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(p.Products, logg))
			r.Patch("/{slug}", controllers.ProductUpdate(p.Products, logg))
			r.Delete("/{slug}", controllers.ProductDelete(p.Products, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.SettingsList(p.Settings, logg))
			r.Put("/{key}", controllers.SettingsSet(p.Settings, logg))
			r.Delete("/{key}", controllers.SettingsDelete(p.Settings, logg))
		})

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", controllers.LeadList(p.Leads, logg))
			r.Delete("/{id}", controllers.LeadDelete(p.Leads, logg))
		})

		r.Route("/admins", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.AdminRoleSuperadmin, logg))
			r.Get("/", controllers.AdminList(p.Admins, logg))
			r.Post("/", controllers.AdminCreate(p.Admins, logg))
			r.Patch("/{id}", controllers.AdminUpdate(p.Admins, logg))
			r.Delete("/{id}", controllers.AdminDelete(p.Admins, logg))
		})
	})

	return r
}

func readinessDeps(p RouterParams) map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if p.DB != nil {
		deps["db"] = p.DB
	}
	if p.Redis != nil {
		deps["redis"] = p.Redis
	}
	if p.GCS != nil {
		deps["gcs"] = p.GCS
	}
	return deps
}
