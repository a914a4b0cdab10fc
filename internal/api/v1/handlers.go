package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/MarvinHaas/ClipCast/app/controllers"
)

// Pong is the ping endpoint response body.
type Pong struct {
	Ping string `json:"ping"`
}

// APIServer implements the public v1 API surface.
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetUserProfile returns account information for the authenticated user (API key).
// Security is enforced via API key middleware attached in the router.
func (s *APIServer) GetUserProfile(c *fiber.Ctx) error {
	return controllers.HandleGetUserAccount(c)
}

// GetConnections returns the caller's platform connections keyed by platform.
func (s *APIServer) GetConnections(c *fiber.Ctx) error {
	return controllers.HandleIntegrationsStatus(c)
}

// GetPlatforms lists the supported platforms and their connection state.
func (s *APIServer) GetPlatforms(c *fiber.Ctx) error {
	return controllers.HandleIntegrationsPlatforms(c)
}
