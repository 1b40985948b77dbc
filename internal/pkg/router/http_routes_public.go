package router

import (
	"github.com/immofund/ImmoFund/app/controllers"
	"github.com/immofund/ImmoFund/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Public project pages
	app.Get("/projects", loggedInMiddleware, controllers.HandleProjects)

	// Short share URLs
	app.Get("/p/:sharelink", loggedInMiddleware, controllers.HandleProjectDetail)

	// Photo processing status (listing form polls this after upload)
	app.Get("/photos/:uuid/status", middleware.RequireAuth, controllers.HandlePhotoStatus)

	// Signed document downloads (token carries the authorization)
	app.Get("/documents/download", loggedInMiddleware, controllers.HandleDocumentDownload)

	// Flash helpers
	app.Get("/flash/submit-rate-limit", loggedInMiddleware, controllers.HandleFlashSubmitRateLimit)
	app.Get("/flash/submit-error", loggedInMiddleware, controllers.HandleFlashSubmitError)

	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Payment provider webhooks (no CSRF, signature-verified in controller)
	app.Post("/webhooks/payment", controllers.HandlePaymentWebhook)
}
