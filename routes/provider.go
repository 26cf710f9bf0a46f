package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/controllers"
	"github.com/meinhoongagan/senior-care-app/middleware"
	"github.com/meinhoongagan/senior-care-app/models"
)

// SetupProviderRoutes configures the public directory and provider self-service
func SetupProviderRoutes(api fiber.Router, secret []byte, providers *controllers.ProviderController) {
	api.Get("/providers", providers.ListProviders)
	api.Get("/providers/:id", providers.GetProvider)

	// Not a group: group middleware would also match the /providers prefix.
	providerOnly := []fiber.Handler{middleware.Protected(secret), middleware.RequireRole(models.RoleProvider)}
	api.Put("/provider/verification", append(providerOnly, providers.UpdateVerification)...)
	api.Post("/provider/documents", append(providerOnly, providers.UploadDocument)...)
}
