package router

import (
	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/MarvinHaas/ClipCast/app/controllers"
	"github.com/MarvinHaas/ClipCast/internal/pkg/middleware"
	"github.com/MarvinHaas/ClipCast/internal/pkg/usercontext"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/", loggedInMiddleware, func(c *fiber.Ctx) error {
		userCtx := usercontext.GetUserContext(c)
		return c.JSON(fiber.Map{
			"app":       "ClipCast",
			"logged_in": userCtx.IsLoggedIn,
			"onboarded": userCtx.Onboarded,
		})
	})

	// Social login (login identity, separate from platform connections)
	app.Get("/auth/:provider", gothfiber.BeginAuthHandler)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)

	// Platform connection flow. The provider calls the callback with a
	// browser redirect, so it cannot carry a CSRF token.
	app.Get("/connect/:platform/authorize", loggedInMiddleware, controllers.HandleConnectAuthorize)
	app.Get("/connect/:platform/callback", loggedInMiddleware, controllers.HandleConnectCallback)

	// Connection status for the dashboard
	app.Get("/integrations/status", loggedInMiddleware, controllers.HandleIntegrationsStatus)
	app.Delete("/integrations/status", loggedInMiddleware, controllers.HandleIntegrationsDisconnect)
	app.Get("/integrations/platforms", loggedInMiddleware, controllers.HandleIntegrationsPlatforms)

	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)
}
