package middleware

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/betercalls/BeterCalls/internal/pkg/usercontext"
)

// RequireAuth ensures a logged-in web session; redirects to /login if missing.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Redirect("/login?message="+url.QueryEscape("Please log in to continue"), fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAdmin ensures a logged-in admin; redirects to the admin login otherwise.
func RequireAdmin(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn || !uc.IsAdmin {
		return c.Redirect("/admin/login", fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireSubscriber gates subscriber-only content. Anonymous users go to the
// login page; logged-in users without an active subscription go to the
// pricing section. The entitlement check runs against the context populated
// fresh from the database by UserContextMiddleware on this same request.
func RequireSubscriber(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn {
		return c.Redirect("/login?message="+url.QueryEscape("Please log in to view the calls feed"), fiber.StatusSeeOther)
	}
	if !uc.IsSubscriber() {
		return c.Redirect("/#pricing", fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAPISubscriber gates API access to subscriber-only content; JSON
// errors instead of redirects.
func RequireAPISubscriber(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	if !uc.IsSubscriber() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "subscription_required",
			"message": "an active subscription is required",
		})
	}
	return c.Next()
}

// RequireAPISessionAuth ensures a logged-in session for API routes and returns JSON 401 instead of redirect.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}
