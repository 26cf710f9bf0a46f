package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/middleware"
	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/services"
)

// DelegateController manages family-member and caregiver accounts of a customer.
type DelegateController struct {
	delegates *services.DelegateService
}

func NewDelegateController(delegates *services.DelegateService) *DelegateController {
	return &DelegateController{delegates: delegates}
}

func (h *DelegateController) AddSubrole(c *fiber.Ctx) error {
	var in services.AddDelegateInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.SubRole = models.SubRole(strings.ToUpper(string(in.SubRole)))

	delegate, err := h.delegates.Add(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(delegate)
}

func (h *DelegateController) ListSubroles(c *fiber.Ctx) error {
	delegates, err := h.delegates.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(delegates)
}

func (h *DelegateController) UpdateSubrole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in services.UpdateDelegateInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	delegate, err := h.delegates.Update(c.UserContext(), middleware.UserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(delegate)
}

func (h *DelegateController) RemoveSubrole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.delegates.Remove(c.UserContext(), middleware.UserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subrole user removed successfully"})
}

// GetParent returns the contact profile of the customer a delegate acts for.
func (h *DelegateController) GetParent(c *fiber.Ctx) error {
	parent, err := h.delegates.ResolveParent(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(parent)
}
