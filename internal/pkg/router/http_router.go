package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/leaguehq/LeagueHQ/app/controllers"
	"github.com/leaguehq/LeagueHQ/internal/pkg/constants"
	"github.com/leaguehq/LeagueHQ/internal/pkg/middleware"
	"github.com/leaguehq/LeagueHQ/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public pricing catalog
	app.Get("/pricing/catalog", controllers.HandleGetPricingCatalog)

	// Billing provider webhooks (signature-verified in controller)
	app.Post(constants.WebhookRoute, controllers.HandleBillingWebhook)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
