package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/controllers"
	"github.com/meinhoongagan/senior-care-app/middleware"
)

// SetupAuthRoutes configures sign-up, sessions, the caller's own account and
// the Google Calendar connection
func SetupAuthRoutes(api fiber.Router, secret []byte, auth *controllers.AuthController, cal *controllers.CalendarController) {
	protected := middleware.Protected(secret)

	group := api.Group("/auth")
	group.Post("/register", auth.Register)
	group.Post("/login", auth.Login)
	group.Post("/refresh", auth.RefreshToken)
	group.Post("/verify-email", auth.VerifyEmail)
	group.Post("/resend-otp", auth.ResendOTP)
	group.Get("/me", protected, auth.GetProfile)

	google := group.Group("/google")
	google.Get("/connect", protected, cal.Connect)
	google.Get("/callback", cal.Callback)
	google.Get("/status", protected, cal.Status)
	google.Post("/disconnect", protected, cal.Disconnect)

	users := api.Group("/users", protected)
	users.Get("/me", auth.GetProfile)
	users.Put("/me", auth.UpdateProfile)
	users.Delete("/me", auth.DeleteAccount)
}
