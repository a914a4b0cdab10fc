package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MarvinHaas/ClipCast/internal/pkg/middleware"
)

// RegisterHandlers attaches the v1 routes to the given router group. Every
// route except ping requires an API key.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)

	protected := router.Group("", middleware.APIKeyAuthMiddleware())
	protected.Get("/user/profile", s.GetUserProfile)
	protected.Get("/connections", s.GetConnections)
	protected.Get("/platforms", s.GetPlatforms)
}
