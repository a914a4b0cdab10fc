package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MarvinHaas/ClipCast/app/controllers"
	"github.com/MarvinHaas/ClipCast/internal/pkg/connect"
	"github.com/MarvinHaas/ClipCast/internal/pkg/middleware"
	"github.com/MarvinHaas/ClipCast/internal/pkg/oauth"
	"github.com/MarvinHaas/ClipCast/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init social login providers
	oauth.Setup()

	// init platform connectors; incomplete credentials abort the boot
	if err := connect.Setup(); err != nil {
		panic(err)
	}

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	controllers.InitializeConnectController()
	controllers.InitializeIntegrationsController()

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context
	return c.Next()
}
