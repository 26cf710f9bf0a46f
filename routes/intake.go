package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/controllers"
	"github.com/meinhoongagan/senior-care-app/middleware"
)

// SetupIntakeRoutes configures service requests, the contact form and the newsletter
func SetupIntakeRoutes(api fiber.Router, secret []byte, intake *controllers.IntakeController) {
	requests := api.Group("/service-requests", middleware.Protected(secret))
	requests.Post("/", intake.CreateServiceRequest)
	requests.Get("/", intake.ListMyServiceRequests)
	requests.Get("/open", intake.ListOpenServiceRequests)
	requests.Get("/:id", intake.GetServiceRequest)
	requests.Put("/:id", intake.UpdateServiceRequest)
	requests.Delete("/:id", intake.DeleteServiceRequest)

	api.Post("/inquiries", intake.CreateInquiry)
	api.Post("/newsletter/subscribe", intake.Subscribe)
}
