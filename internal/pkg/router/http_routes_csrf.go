package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/betercalls/BeterCalls/app/controllers"
	"github.com/betercalls/BeterCalls/internal/pkg/env"
	"github.com/betercalls/BeterCalls/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", loggedInMiddleware, controllers.HandleStart)

	// Auth
	group.Get("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Get("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Post("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Get("/forgot-password", loggedInMiddleware, controllers.HandleForgotPassword)
	group.Post("/forgot-password", loggedInMiddleware, controllers.HandleForgotPassword)
	group.Get("/reset-password", loggedInMiddleware, controllers.HandleResetPassword)
	group.Post("/reset-password", loggedInMiddleware, controllers.HandleResetPassword)

	// Admin login is outside the /admin group so it stays reachable
	group.Get("/admin/login", loggedInMiddleware, controllers.HandleAdminLogin)
	group.Post("/admin/login", loggedInMiddleware, controllers.HandleAdminLogin)

	// Account
	group.Get("/account", middleware.RequireAuth, controllers.HandleAccount)
	group.Post("/account", middleware.RequireAuth, controllers.HandleAccountUpdate)
	group.Post("/account/avatar", middleware.RequireAuth, controllers.HandleAvatarUpload)
	group.Get("/account/subscription", middleware.RequireAuth, controllers.HandleSubscriptionPage)

	// Checkout: the request only names a plan, the stored price is used
	group.Post("/checkout/:planID", middleware.RequireAuth, controllers.HandleBeginCheckout)

	// Subscriber-only calls feed
	group.Get("/calls", middleware.RequireSubscriber, controllers.HandleCallsFeed)
	group.Get("/calls/:uuid", middleware.RequireSubscriber, controllers.HandleCallDetail)
	group.Post("/calls/:uuid/comments", middleware.RequireSubscriber, controllers.HandleDiscussionCreate)
}
