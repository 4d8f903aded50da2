package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/betercalls/BeterCalls/app/controllers"
	"github.com/betercalls/BeterCalls/internal/pkg/middleware"
	"github.com/betercalls/BeterCalls/internal/pkg/oauth"
	"github.com/betercalls/BeterCalls/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Initialize controllers that carry their own dependencies
	controllers.InitializeAdminController()
	controllers.InitializeWebhookController()

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context
	// All user information is available via usercontext.GetUserContext(c)
	return c.Next()
}
