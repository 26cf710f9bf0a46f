package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/middleware"
	"github.com/meinhoongagan/senior-care-app/models"
)

// SetupAdminRoutes configures everything under /api/admin. The services
// re-check the admin role against the stored user.
func SetupAdminRoutes(api fiber.Router, secret []byte, c Controllers) {
	admin := api.Group("/admin", middleware.Protected(secret), middleware.RequireRole(models.RoleAdmin))

	admin.Get("/users", c.Auth.ListUsers)
	admin.Delete("/users/:id", c.Auth.DeleteUser)
	admin.Put("/users/:id/verify", c.Providers.VerifyProvider)
	admin.Get("/users/:id/verification", c.Providers.GetVerification)

	admin.Post("/bookings/calendar-sync", c.Bookings.ReconcileCalendar)

	admin.Post("/categories", c.Catalog.CreateCategory)
	admin.Put("/categories/:id", c.Catalog.UpdateCategory)
	admin.Delete("/categories/:id", c.Catalog.DeleteCategory)
	admin.Post("/categories/:id/subcategories", c.Catalog.CreateSubcategory)
	admin.Put("/subcategories/:id", c.Catalog.UpdateSubcategory)
	admin.Delete("/subcategories/:id", c.Catalog.DeleteSubcategory)

	admin.Get("/inquiries", c.Intake.ListInquiries)
	admin.Put("/inquiries/:id", c.Intake.UpdateInquiry)
	admin.Delete("/inquiries/:id", c.Intake.DeleteInquiry)
	admin.Get("/newsletter", c.Intake.ListSubscribers)
}
