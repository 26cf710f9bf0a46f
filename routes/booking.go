package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/controllers"
	"github.com/meinhoongagan/senior-care-app/middleware"
)

// SetupBookingRoutes configures the booking lifecycle routes
func SetupBookingRoutes(api fiber.Router, secret []byte, bookings *controllers.BookingController) {
	booking := api.Group("/bookings", middleware.Protected(secret))
	booking.Post("/", bookings.CreateBooking)
	booking.Get("/", bookings.GetBookings)
	booking.Get("/:id", bookings.GetBooking)
	booking.Put("/:id", bookings.UpdateBooking)
	booking.Delete("/:id", bookings.DeleteBooking)
}
