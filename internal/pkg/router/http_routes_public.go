package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/betercalls/BeterCalls/app/controllers"
	"github.com/betercalls/BeterCalls/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Static pages
	app.Get("/about", loggedInMiddleware, controllers.HandleAbout)

	// Account activation via emailed token
	app.Get("/activate", loggedInMiddleware, controllers.HandleActivate)

	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Social OAuth
	app.Get("/auth/:provider", controllers.HandleOAuthBegin)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)

	// Payment provider webhooks (no CSRF, signature-verified in controller)
	app.Post("/api/webhooks/helio", controllers.HandleHelioWebhook)
}
