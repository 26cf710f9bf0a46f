package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/middleware"
	"github.com/meinhoongagan/senior-care-app/services"
)

// IntakeController covers the inbound channels: service requests, the
// contact form and newsletter sign-up.
type IntakeController struct {
	requests   *services.ServiceRequestService
	inquiries  *services.InquiryService
	newsletter *services.NewsletterService
}

func NewIntakeController(requests *services.ServiceRequestService, inquiries *services.InquiryService, newsletter *services.NewsletterService) *IntakeController {
	return &IntakeController{requests: requests, inquiries: inquiries, newsletter: newsletter}
}

func (h *IntakeController) CreateServiceRequest(c *fiber.Ctx) error {
	var in services.CreateServiceRequestInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	req, err := h.requests.Create(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

func (h *IntakeController) ListMyServiceRequests(c *fiber.Ctx) error {
	reqs, err := h.requests.ListOwn(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reqs)
}

// ListOpenServiceRequests is the providers' feed, optionally ?categoryId=.
func (h *IntakeController) ListOpenServiceRequests(c *fiber.Ctx) error {
	var categoryID *uint
	if c.Query("categoryId") != "" {
		id := uint(c.QueryInt("categoryId"))
		categoryID = &id
	}
	reqs, err := h.requests.ListOpen(c.UserContext(), middleware.UserID(c), categoryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reqs)
}

func (h *IntakeController) GetServiceRequest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	req, err := h.requests.Get(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(req)
}

func (h *IntakeController) UpdateServiceRequest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in services.UpdateServiceRequestInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	req, err := h.requests.Update(c.UserContext(), middleware.UserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(req)
}

func (h *IntakeController) DeleteServiceRequest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.requests.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Service request deleted successfully"})
}

// CreateInquiry is the public contact form.
func (h *IntakeController) CreateInquiry(c *fiber.Ctx) error {
	var in services.CreateInquiryInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inquiry, err := h.inquiries.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Thank you for contacting us. We will get back to you soon.",
		"inquiry": inquiry,
	})
}

func (h *IntakeController) ListInquiries(c *fiber.Ctx) error {
	inquiries, err := h.inquiries.List(c.UserContext(), middleware.UserID(c), services.InquiryQuery{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inquiries)
}

func (h *IntakeController) UpdateInquiry(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in services.UpdateInquiryInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inquiry, err := h.inquiries.Update(c.UserContext(), middleware.UserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inquiry)
}

func (h *IntakeController) DeleteInquiry(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.inquiries.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Inquiry deleted successfully"})
}

func (h *IntakeController) Subscribe(c *fiber.Ctx) error {
	var in services.SubscribeInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sub, err := h.newsletter.Subscribe(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Subscribed successfully",
		"subscription": sub,
	})
}

func (h *IntakeController) ListSubscribers(c *fiber.Ctx) error {
	subs, err := h.newsletter.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subs)
}
