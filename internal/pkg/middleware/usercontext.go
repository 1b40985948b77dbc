package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/immofund/ImmoFund/app/controllers"
	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/internal/pkg/database"
	"github.com/immofund/ImmoFund/internal/pkg/entitlements"
	"github.com/immofund/ImmoFund/internal/pkg/session"
	"github.com/immofund/ImmoFund/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request
// This centralizes user session handling and eliminates code duplication
func UserContextMiddleware(c *fiber.Ctx) error {
	// Get session with error handling
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		// On error: set as anonymous user
		c.Locals("USER_CONTEXT", usercontext.UserContext{
			IsLoggedIn: false,
			IsAdmin:    false,
		})
		// Set legacy compatibility locals
		c.Locals(controllers.FROM_PROTECTED, false)
		c.Locals(controllers.USER_IS_ADMIN, false)
		return c.Next()
	}

	// Get user ID from session
	userID := sess.Get(controllers.USER_ID)
	if userID == nil {
		// Anonymous user - no session data
		c.Locals("USER_CONTEXT", usercontext.UserContext{
			IsLoggedIn: false,
			IsAdmin:    false,
		})
		// Set legacy compatibility locals
		c.Locals(controllers.FROM_PROTECTED, false)
		c.Locals(controllers.USER_IS_ADMIN, false)
		return c.Next()
	}

	// User is logged in - get additional data
	username := session.GetSessionValue(c, controllers.USER_NAME)
	isAdmin := sess.Get(controllers.USER_IS_ADMIN)
	isDeveloper := sess.Get(controllers.USER_IS_DEVELOPER)

	// Determine subscription tier with session-first strategy
	tier := session.GetSessionValue(c, controllers.USER_TIER)
	status := session.GetSessionValue(c, controllers.USER_SUBSCRIPTION_STATUS)
	if tier == "" {
		tier = string(entitlements.TierStarter)
		if db := database.GetDB(); db != nil {
			if sub, err := models.FindCurrentSubscription(db, userID.(uint)); err == nil && sub != nil {
				tier = string(entitlements.NormalizeTier(sub.Tier))
				status = sub.Status
			}
		}
		// cache in session for subsequent requests
		_ = session.SetSessionValue(c, controllers.USER_TIER, tier)
		_ = session.SetSessionValue(c, controllers.USER_SUBSCRIPTION_STATUS, status)
	}

	// Set complete user context
	userCtx := usercontext.UserContext{
		UserID:             userID.(uint),
		Username:           username,
		IsLoggedIn:         true,
		IsAdmin:            isAdmin != nil && isAdmin.(bool),
		IsDeveloper:        isDeveloper != nil && isDeveloper.(bool),
		Tier:               tier,
		SubscriptionStatus: status,
	}
	c.Locals("USER_CONTEXT", userCtx)

	// Legacy compatibility - keep existing Locals for backward compatibility
	c.Locals(controllers.FROM_PROTECTED, true)
	c.Locals(controllers.USER_NAME, username)
	c.Locals(controllers.USER_ID, userID.(uint))
	c.Locals(controllers.USER_IS_ADMIN, userCtx.IsAdmin)

	// Store username in user's individual session (multi-user safe)
	session.SetSessionValue(c, controllers.USER_NAME, username)

	return c.Next()
}
