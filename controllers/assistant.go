package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/services"
)

type AssistantController struct {
	assistant *services.AssistantService
}

func NewAssistantController(assistant *services.AssistantService) *AssistantController {
	return &AssistantController{assistant: assistant}
}

func (h *AssistantController) Chat(c *fiber.Ctx) error {
	var in services.ChatInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	reply, err := h.assistant.Chat(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reply": reply})
}

func (h *AssistantController) Pricing(c *fiber.Ctx) error {
	var in services.PricingInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	estimate, err := h.assistant.EstimatePrice(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"estimate": estimate})
}

func (h *AssistantController) Recommendations(c *fiber.Ctx) error {
	var in services.RecommendInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.assistant.Recommend(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

func (h *AssistantController) CarePlan(c *fiber.Ctx) error {
	var in services.CarePlanInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	plan, err := h.assistant.CarePlan(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"plan": plan})
}
