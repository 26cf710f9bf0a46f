package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/middleware"
	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/services"
	"github.com/meinhoongagan/senior-care-app/utils"
)

// ProviderController serves the public directory, provider self-service
// verification and the admin vetting endpoints.
type ProviderController struct {
	providers *services.ProviderService
	vetting   *services.VettingService
}

func NewProviderController(providers *services.ProviderService, vetting *services.VettingService) *ProviderController {
	return &ProviderController{providers: providers, vetting: vetting}
}

func (h *ProviderController) ListProviders(c *fiber.Ctx) error {
	providers, err := h.providers.List(c.UserContext(), services.ProviderQuery{
		ServiceType: c.Query("serviceType"),
		VettedOnly:  queryBool(c, "vetted"),
		Search:      c.Query("search"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(providers)
}

func (h *ProviderController) GetProvider(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	provider, err := h.providers.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(provider)
}

func (h *ProviderController) UpdateVerification(c *fiber.Ctx) error {
	var in services.UpdateVerificationInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := h.vetting.UpdateVerification(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UploadDocument takes a multipart "document" file and a "type" field.
func (h *ProviderController) UploadDocument(c *fiber.Ctx) error {
	up, closer, err := formFile(c, "document")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Error: "Invalid multipart form"})
	}
	defer closer.Close()
	if up == nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Error: "No document uploaded"})
	}

	kind := c.FormValue("type", services.DocumentOther)
	user, err := h.vetting.UploadDocument(c.UserContext(), middleware.UserID(c), kind, *up)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// VerifyProvider records the admin's vetting decision.
func (h *ProviderController) VerifyProvider(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in struct {
		VettedStatus string `json:"vettedStatus"`
		Notes        string `json:"notes"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	status := models.VettedStatus(strings.ToUpper(strings.TrimSpace(in.VettedStatus)))

	summary, err := h.vetting.SetStatus(c.UserContext(), middleware.UserID(c), id, status, in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Provider vetting status updated",
		"user":    summary,
	})
}

func (h *ProviderController) GetVerification(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	detail, err := h.vetting.Detail(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}
