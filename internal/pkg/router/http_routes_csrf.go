package router

import (
	"strings"
	"time"

	"github.com/immofund/ImmoFund/app/controllers"
	"github.com/immofund/ImmoFund/internal/pkg/env"
	"github.com/immofund/ImmoFund/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
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
	group.Get("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Get("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Post("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Get("/activate", loggedInMiddleware, controllers.HandleAuthActivate)
	group.Get("/pricing", loggedInMiddleware, controllers.HandlePricing)
	group.Get("/about", loggedInMiddleware, controllers.HandleAbout)

	// Logged-in user area
	group.Get("/user/dashboard", middleware.RequireAuth, controllers.HandleUserDashboard)
	group.Get("/user/profile", middleware.RequireAuth, controllers.HandleUserProfile)
	group.Post("/user/profile", middleware.RequireAuth, controllers.HandleUserProfile)
	group.Get("/user/settings", middleware.RequireAuth, controllers.HandleUserSettings)
	group.Post("/user/settings", middleware.RequireAuth, controllers.HandleUserSettings)
	group.Post("/user/settings/api-key", middleware.RequireAuth, controllers.HandleAPIKeyGenerate)
	group.Post("/user/settings/api-key/revoke", middleware.RequireAuth, controllers.HandleAPIKeyRevoke)
	group.Get("/user/notifications", middleware.RequireAuth, controllers.HandleUserNotifications)
	group.Post("/user/notifications/read/:id", middleware.RequireAuth, controllers.HandleNotificationRead)

	// Investing
	group.Get("/user/investments", middleware.RequireAuth, controllers.HandleUserInvestments)
	group.Post("/user/investments/confirm/:id", middleware.RequireAuth, controllers.HandleInvestmentConfirm)
	group.Post("/p/:sharelink/invest", middleware.RequireAuth, controllers.HandleProjectInvest)

	// Billing
	group.Get("/user/billing", middleware.RequireAuth, controllers.HandleBillingOverview)
	group.Post("/user/billing/subscribe", middleware.RequireAuth, controllers.HandleBillingSubscribe)
	group.Post("/user/billing/upgrade", middleware.RequireAuth, controllers.HandleBillingUpgrade)
	group.Post("/user/billing/cancel", middleware.RequireAuth, controllers.HandleBillingCancel)
	group.Post("/user/billing/addon", middleware.RequireAuth, controllers.HandleBillingAddOn)

	// Developer listing management
	group.Get("/user/projects", middleware.RequireDeveloper, controllers.HandleUserProjects)
	group.Get("/user/projects/new", middleware.RequireDeveloper, controllers.HandleProjectNew)
	group.Post("/user/projects/new", middleware.RequireDeveloper, controllers.HandleProjectNew)
	group.Post("/user/projects/withdraw/:uuid", middleware.RequireDeveloper, controllers.HandleProjectWithdraw)

	// Document vault
	group.Get("/user/projects/:uuid/documents", middleware.RequireDeveloper, controllers.HandleProjectDocuments)
	group.Post("/user/projects/:uuid/documents", middleware.RequireDeveloper, controllers.HandleProjectDocuments)
	group.Get("/documents/:uuid/link", middleware.RequireAuth, controllers.HandleDocumentLink)
	group.Post("/documents/delete/:uuid", middleware.RequireDeveloper, controllers.HandleDocumentDelete)
}
