package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/immofund/ImmoFund/internal/pkg/middleware"
)

// RegisterHandlers mounts all v1 routes on the given router. Account-bound
// endpoints require an API key, the rest is public.
func RegisterHandlers(r fiber.Router, s *APIServer) {
	r.Get("/ping", s.GetPing)

	r.Get("/projects", s.GetProjects)
	r.Get("/projects/:uuid", func(c *fiber.Ctx) error {
		return s.GetProject(c, c.Params("uuid"))
	})
	r.Get("/projects/:uuid/quote", func(c *fiber.Ctx) error {
		return s.GetInvestmentQuote(c, c.Params("uuid"))
	})

	authed := r.Group("/user", middleware.APIKeyAuthMiddleware())
	authed.Get("/profile", s.GetUserProfile)
	authed.Get("/entitlements", s.GetUserEntitlements)
}
