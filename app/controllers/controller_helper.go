package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/betercalls/BeterCalls/internal/pkg/usercontext"
)

// renderContext builds the base template data every page needs: the current
// user context, flash messages and the CSRF token when present.
func renderContext(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	uc := usercontext.GetUserContext(c)
	data["User"] = uc
	data["IsLoggedIn"] = uc.IsLoggedIn
	data["IsAdmin"] = uc.IsAdmin
	data["IsSubscriber"] = uc.IsSubscriber()
	data["Flash"] = flash.Get(c)

	if token, ok := c.Locals("csrf").(string); ok {
		data["CSRFToken"] = token
	}

	return data
}

// GetClientIP determines the actual client IP address considering proxies
func GetClientIP(c *fiber.Ctx) string {
	// Cloudflare passes the original client IP in this header
	if cfIP := strings.TrimSpace(c.Get("CF-Connecting-IP")); cfIP != "" {
		return cfIP
	}

	// X-Forwarded-For can contain a list of IPs - the first one is the original client IP
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			if ip := strings.TrimSpace(parts[0]); ip != "" {
				return ip
			}
		}
	}

	return c.IP()
}
