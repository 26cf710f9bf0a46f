package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/controllers"
)

func SetupAssistantRoutes(api fiber.Router, assistant *controllers.AssistantController) {
	ai := api.Group("/ai")
	ai.Post("/chat", assistant.Chat)
	ai.Post("/pricing", assistant.Pricing)
	ai.Post("/recommendations", assistant.Recommendations)
	ai.Post("/care-plan", assistant.CarePlan)
}
