package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/betercalls/BeterCalls/app/models"
	"github.com/betercalls/BeterCalls/internal/pkg/database"
	"github.com/betercalls/BeterCalls/internal/pkg/session"
	"github.com/betercalls/BeterCalls/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request.
// The session only holds the user id; role and entitlement are loaded fresh
// from the database each time so that a subscription cancelled by a webhook
// locks the user out on their very next request.
func UserContextMiddleware(c *fiber.Ctx) error {
	// Goth uses its own fiber session store and relies on per-request locals.
	// We skip our app session on /auth/* to prevent cross-store collisions.
	if strings.HasPrefix(c.Path(), "/auth/") {
		return c.Next()
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return setAnonymous(c)
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		return setAnonymous(c)
	}

	id, ok := userID.(uint)
	if !ok {
		return setAnonymous(c)
	}

	db := database.GetDB()
	if db == nil {
		return setAnonymous(c)
	}

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		// Stale session pointing at a deleted user
		return setAnonymous(c)
	}

	tier := ""
	if user.SubscriptionTier != nil {
		tier = *user.SubscriptionTier
	}
	userCtx := usercontext.UserContext{
		UserID:             user.ID,
		Username:           user.Name,
		Email:              user.Email,
		IsLoggedIn:         true,
		IsAdmin:            user.IsAdmin(),
		SubscriptionStatus: user.SubscriptionStatus,
		SubscriptionTier:   tier,
	}
	c.Locals(usercontext.KeyUserContext, userCtx)
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUsername, user.Name)
	c.Locals(usercontext.KeyUserID, user.ID)
	c.Locals(usercontext.KeyIsAdmin, userCtx.IsAdmin)

	return c.Next()
}

func setAnonymous(c *fiber.Ctx) error {
	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		IsLoggedIn: false,
		IsAdmin:    false,
	})
	c.Locals(usercontext.KeyFromProtected, false)
	c.Locals(usercontext.KeyIsAdmin, false)
	return c.Next()
}
