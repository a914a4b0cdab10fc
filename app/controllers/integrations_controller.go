package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/MarvinHaas/ClipCast/app/models"
	"github.com/MarvinHaas/ClipCast/app/repository"
	"github.com/MarvinHaas/ClipCast/internal/pkg/connect"
	"github.com/MarvinHaas/ClipCast/internal/pkg/usercontext"
)

// integrationsRepo is swapped out in tests. Defaults to the global factory's
// connection repository via InitializeIntegrationsController.
var integrationsRepo repository.ConnectionRepository

// InitializeIntegrationsController binds the integrations routes to the
// global repository factory.
func InitializeIntegrationsController() {
	integrationsRepo = repository.GetGlobalFactory().GetConnectionRepository()
}

// HandleIntegrationsStatus returns the caller's platform connections as a
// map keyed by platform id under "connections". Platforms without a
// connection are absent from the map, never null entries. Tokens stay
// server-side.
func HandleIntegrationsStatus(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	conns, err := integrationsRepo.ListByUser(userCtx.UserID)
	if err != nil {
		log.Printf("[integrations] status query failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch integrations"})
	}

	status := make(map[string]models.ConnectionInfo, len(conns))
	for _, conn := range conns {
		status[conn.Platform] = conn.Info()
	}
	return c.JSON(fiber.Map{"connections": status})
}

// HandleIntegrationsDisconnect removes a single platform connection. Removing
// a platform that is not connected succeeds; the end state is the same.
func HandleIntegrationsDisconnect(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	platform := c.Query("platform")
	if platform == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Platform is required"})
	}
	if !connect.IsKnown(platform) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown platform"})
	}

	if err := integrationsRepo.DeleteByUserAndPlatform(userCtx.UserID, platform); err != nil {
		log.Printf("[integrations] disconnect failed for user %d platform %s: %v", userCtx.UserID, platform, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to disconnect platform"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleIntegrationsPlatforms lists every known platform with its display
// name, whether a connector is configured and whether the caller has an
// active connection to it.
func HandleIntegrationsPlatforms(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	connected := make(map[string]bool)
	conns, err := integrationsRepo.ListByUser(userCtx.UserID)
	if err != nil {
		log.Printf("[integrations] platform list query failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch integrations"})
	}
	for _, conn := range conns {
		connected[conn.Platform] = true
	}

	type platformStatus struct {
		connect.PlatformInfo
		Connected bool `json:"connected"`
	}
	infos := connectRegistry.Platforms()
	out := make([]platformStatus, 0, len(infos))
	for _, info := range infos {
		out = append(out, platformStatus{PlatformInfo: info, Connected: connected[string(info.ID)]})
	}
	return c.JSON(out)
}
