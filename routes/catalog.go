package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/controllers"
	"github.com/meinhoongagan/senior-care-app/middleware"
)

// SetupCatalogRoutes configures the public category routes. Admin writes
// live under /api/admin.
func SetupCatalogRoutes(api fiber.Router, secret []byte, catalog *controllers.CatalogController) {
	categories := api.Group("/categories", middleware.Optional(secret))
	categories.Get("/", catalog.ListCategories)
	categories.Get("/:id/subcategories", catalog.ListSubcategories)
	categories.Get("/:key", catalog.GetCategory)
}
