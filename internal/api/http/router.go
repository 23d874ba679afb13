package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/craftelio/storefront/internal/api/http/handlers"
	"github.com/craftelio/storefront/internal/auth"
	"github.com/craftelio/storefront/internal/config"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Account        *handlers.AccountHandler
	Products       *handlers.ProductsHandler
	AuthMiddleware fiber.Handler
	Metrics        nethttp.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	account := app.Group("/identity/account")
	account.Post("/register", cfg.Account.Register)
	account.Post("/login", cfg.Account.Login)

	account.Post("/logout", cfg.AuthMiddleware, auth.RequireAuthenticated(), cfg.Account.Logout)
	account.Get("/me", cfg.AuthMiddleware, auth.RequireAuthenticated(), cfg.Account.Me)

	admin := app.Group("/admin", cfg.AuthMiddleware, auth.RequireRole(config.RoleAdmin))
	admin.Get("/products", cfg.Products.List)
	admin.Get("/products/:id", cfg.Products.Get)
	admin.Post("/products", cfg.Products.Upsert)
	admin.Delete("/products/:id", cfg.Products.Delete)
	admin.Get("/categories", cfg.Products.Categories)
	admin.Get("/cover-types", cfg.Products.CoverTypes)
}
