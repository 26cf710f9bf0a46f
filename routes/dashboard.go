package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/controllers"
	"github.com/meinhoongagan/senior-care-app/middleware"
	"github.com/meinhoongagan/senior-care-app/models"
)

// SetupDashboardRoutes configures delegate management and dashboard stats
func SetupDashboardRoutes(api fiber.Router, secret []byte, delegates *controllers.DelegateController, bookings *controllers.BookingController) {
	dashboard := api.Group("/dashboard", middleware.Protected(secret))
	dashboard.Get("/stats", bookings.GetStats)
	dashboard.Get("/subrole/parent", delegates.GetParent)

	subroles := dashboard.Group("/customer/subroles", middleware.RequireRole(models.RoleCustomer))
	subroles.Post("/", delegates.AddSubrole)
	subroles.Get("/", delegates.ListSubroles)
	subroles.Put("/:id", delegates.UpdateSubrole)
	subroles.Delete("/:id", delegates.RemoveSubrole)
}
