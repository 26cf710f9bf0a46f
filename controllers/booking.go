package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/middleware"
	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/services"
)

const defaultReconcileLimit = 100

// BookingManager is the booking lifecycle as the HTTP layer uses it.
type BookingManager interface {
	Create(ctx context.Context, callerID uint, in services.CreateBookingInput) (*services.BookingResult, error)
	List(ctx context.Context, callerID uint) ([]models.Booking, error)
	Get(ctx context.Context, callerID, id uint) (*models.Booking, error)
	Update(ctx context.Context, callerID, id uint, in services.UpdateBookingInput) (*models.Booking, error)
	Delete(ctx context.Context, callerID, id uint) error
	Stats(ctx context.Context, callerID uint) (*services.DashboardStats, error)
	ReconcileCalendar(ctx context.Context, limit int) (*services.ReconcileResult, error)
}

var _ BookingManager = (*services.BookingService)(nil)

type BookingController struct {
	bookings BookingManager
}

func NewBookingController(bookings BookingManager) *BookingController {
	return &BookingController{bookings: bookings}
}

// CreateBooking books a provider for the calling customer. The response
// reports whether the event reached the customer's calendar.
func (h *BookingController) CreateBooking(c *fiber.Ctx) error {
	var in services.CreateBookingInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.bookings.Create(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *BookingController) GetBookings(c *fiber.Ctx) error {
	bookings, err := h.bookings.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookings)
}

func (h *BookingController) GetBooking(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	booking, err := h.bookings.Get(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

func (h *BookingController) UpdateBooking(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in services.UpdateBookingInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	booking, err := h.bookings.Update(c.UserContext(), middleware.UserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

func (h *BookingController) DeleteBooking(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.bookings.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Booking deleted successfully"})
}

func (h *BookingController) GetStats(c *fiber.Ctx) error {
	stats, err := h.bookings.Stats(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// ReconcileCalendar runs one calendar reconciliation pass on demand.
// Admin only; the route applies the role gate.
func (h *BookingController) ReconcileCalendar(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultReconcileLimit)
	if limit <= 0 || limit > 1000 {
		limit = defaultReconcileLimit
	}
	result, err := h.bookings.ReconcileCalendar(c.UserContext(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
