package router

import (
	"github.com/immofund/ImmoFund/app/controllers"
	"github.com/immofund/ImmoFund/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin)
	adminGroup.Get("/", controllers.HandleAdminDashboard)
	adminGroup.Get("/users", controllers.HandleAdminUsers)
	adminGroup.Get("/users/edit/:id", controllers.HandleAdminUserEdit)
	adminGroup.Post("/users/edit/:id", controllers.HandleAdminUserEdit)
	adminGroup.Post("/users/delete/:id", controllers.HandleAdminUserDelete)

	// Project moderation
	adminGroup.Get("/projects", controllers.HandleAdminProjects)
	adminGroup.Post("/projects/approve/:uuid", controllers.HandleAdminProjectApprove)
	adminGroup.Post("/projects/reject/:uuid", controllers.HandleAdminProjectReject)

	// Platform settings + billing
	adminGroup.Get("/settings", controllers.HandleAdminSettings)
	adminGroup.Post("/settings", controllers.HandleAdminSettings)
	adminGroup.Post("/billing/sweep", controllers.HandleAdminBillingSweep)

	// Queue monitor
	adminGroup.Get("/queues", controllers.HandleAdminQueues)
	adminGroup.Get("/queues/data", controllers.HandleAdminQueuesData)
	adminGroup.Delete("/queues/delete/:key", controllers.HandleAdminQueueDelete)

	// Storage management
	adminGroup.Get("/storage", controllers.HandleAdminStorageManagement)
	adminGroup.Get("/storage/health-check", controllers.HandleAdminStorageHealthCheck)
	adminGroup.Get("/storage/edit/:id", controllers.HandleAdminStoragePoolEdit)
	adminGroup.Post("/storage/edit/:id", controllers.HandleAdminStoragePoolEdit)
	adminGroup.Post("/storage/delete/:id", controllers.HandleAdminStoragePoolDelete)
	adminGroup.Post("/storage/recalculate-usage/:id", controllers.HandleAdminStoragePoolRecalculate)
}
