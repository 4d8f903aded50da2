package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betercalls/BeterCalls/app/models"
	"github.com/betercalls/BeterCalls/internal/pkg/usercontext"
)

func newGateTestApp(uc *usercontext.UserContext, gate fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if uc != nil {
			c.Locals(usercontext.KeyUserContext, *uc)
		}
		return c.Next()
	})
	app.Get("/guarded", gate, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRequireSubscriberAnonymousRedirectsToLogin(t *testing.T) {
	app := newGateTestApp(nil, RequireSubscriber)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/login")
}

func TestRequireSubscriberWithoutEntitlementRedirectsToPricing(t *testing.T) {
	uc := &usercontext.UserContext{
		UserID:             1,
		IsLoggedIn:         true,
		SubscriptionStatus: models.SubscriptionInactive,
	}
	app := newGateTestApp(uc, RequireSubscriber)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/#pricing", resp.Header.Get("Location"))
}

func TestRequireSubscriberCancelledRedirectsToPricing(t *testing.T) {
	uc := &usercontext.UserContext{
		UserID:             1,
		IsLoggedIn:         true,
		SubscriptionStatus: models.SubscriptionCancelled,
	}
	app := newGateTestApp(uc, RequireSubscriber)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/#pricing", resp.Header.Get("Location"))
}

func TestRequireSubscriberActivePasses(t *testing.T) {
	uc := &usercontext.UserContext{
		UserID:             1,
		IsLoggedIn:         true,
		SubscriptionStatus: models.SubscriptionActive,
	}
	app := newGateTestApp(uc, RequireSubscriber)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	admin := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, IsAdmin: true}
	app := newGateTestApp(admin, RequireAdmin)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	user := &usercontext.UserContext{UserID: 2, IsLoggedIn: true, IsAdmin: false}
	app = newGateTestApp(user, RequireAdmin)

	resp, err = app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
}

func TestRequireAPISubscriberReturnsJSONErrors(t *testing.T) {
	app := newGateTestApp(nil, RequireAPISubscriber)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	uc := &usercontext.UserContext{UserID: 3, IsLoggedIn: true, SubscriptionStatus: models.SubscriptionInactive}
	app = newGateTestApp(uc, RequireAPISubscriber)

	resp, err = app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
