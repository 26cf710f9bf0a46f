package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/controllers"
)

// Controllers bundles every handler group the route table needs.
type Controllers struct {
	Health    *controllers.HealthController
	Auth      *controllers.AuthController
	Calendar  *controllers.CalendarController
	Delegates *controllers.DelegateController
	Bookings  *controllers.BookingController
	Providers *controllers.ProviderController
	Catalog   *controllers.CatalogController
	Intake    *controllers.IntakeController
	Assistant *controllers.AssistantController
}

// Setup registers the whole API. secret verifies bearer tokens.
func Setup(app *fiber.App, secret []byte, c Controllers) {
	SetupHealthRoutes(app, c.Health)

	api := app.Group("/api")
	SetupAuthRoutes(api, secret, c.Auth, c.Calendar)
	SetupDashboardRoutes(api, secret, c.Delegates, c.Bookings)
	SetupBookingRoutes(api, secret, c.Bookings)
	SetupProviderRoutes(api, secret, c.Providers)
	SetupCatalogRoutes(api, secret, c.Catalog)
	SetupIntakeRoutes(api, secret, c.Intake)
	SetupAssistantRoutes(api, c.Assistant)
	SetupAdminRoutes(api, secret, c)
}

func SetupHealthRoutes(app *fiber.App, h *controllers.HealthController) {
	app.Get("/health", h.Live)
	app.Get("/health/ready", h.Ready)
}
