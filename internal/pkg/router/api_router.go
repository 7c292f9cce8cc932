package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/leaguehq/LeagueHQ/app/controllers"
	"github.com/leaguehq/LeagueHQ/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	// Auth
	v1.Post("/auth/register", controllers.HandleAuthRegister)
	v1.Post("/auth/login", controllers.HandleAuthLogin)
	v1.Post("/auth/logout", middleware.RequireAuth, controllers.HandleAuthLogout)
	v1.Get("/auth/me", middleware.RequireAuth, controllers.HandleAuthMe)
	v1.Post("/auth/api-key", middleware.RequireAuth, controllers.HandleIssueAPIKey)

	// Assistant managers
	v1.Post("/assistants", middleware.RequireTenant, controllers.HandleCreateAssistant)
	v1.Get("/assistants", middleware.RequireTenant, controllers.HandleListAssistants)

	// Subscription and packages
	v1.Get("/subscription", middleware.RequireTenant, controllers.HandleGetSubscription)
	v1.Get("/packages", middleware.RequireTenant, controllers.HandleListPackages)
	v1.Post("/packages/assign", middleware.RequireTenant, controllers.HandleAssignPackage)
	v1.Get("/packages/available", middleware.RequireTenant, controllers.HandleListAvailablePackages)

	// Venues and pitches
	v1.Post("/venues", middleware.RequireTenant, controllers.HandleCreateVenue)
	v1.Get("/venues", middleware.RequireTenant, controllers.HandleListVenues)
	v1.Get("/venues/:id", middleware.RequireTenant, controllers.HandleGetVenue)
	v1.Delete("/venues/:id", middleware.RequireTenant, controllers.HandleDeleteVenue)
	v1.Post("/venues/:id/pitches", middleware.RequireTenant, controllers.HandleCreatePitch)
	v1.Delete("/venues/:id/pitches/:pitchId", middleware.RequireTenant, controllers.HandleDeletePitch)

	// Pricing
	v1.Get("/pricing/catalog", controllers.HandleGetPricingCatalog)
	v1.Post("/pricing/quote", middleware.RequireAuth, controllers.HandleQuote)

	// Admin tenant provisioning
	admin := v1.Group("/admin", middleware.RequireAdmin)
	admin.Post("/tenants", controllers.HandleAdminCreateTenant)
	admin.Get("/tenants", controllers.HandleAdminListTenants)
	admin.Delete("/tenants/:id", controllers.HandleAdminDeleteTenant)

	// Machine access with API keys instead of sessions
	ext := api.Group("/ext", middleware.APIKeyAuthMiddleware())
	ext.Get("/subscription", middleware.RequireTenant, controllers.HandleGetSubscription)
	ext.Get("/venues", middleware.RequireTenant, controllers.HandleListVenues)
	ext.Post("/pricing/quote", controllers.HandleQuote)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
