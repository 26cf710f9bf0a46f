package controllers

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/logging"
	"github.com/meinhoongagan/senior-care-app/middleware"
	"github.com/meinhoongagan/senior-care-app/models"
)

// CalendarConnector is the OAuth side of the calendar adapter.
type CalendarConnector interface {
	Enabled() bool
	AuthURL(ctx context.Context, userID uint) (string, error)
	Exchange(ctx context.Context, code, state string) (uint, error)
	Disconnect(ctx context.Context, userID uint) error
	HasConnection(ctx context.Context, userID uint) (bool, error)
}

// ProfileLookup resolves the user a callback belongs to.
type ProfileLookup interface {
	Profile(ctx context.Context, userID uint) (*models.User, error)
}

type CalendarController struct {
	calendar    CalendarConnector
	accounts    ProfileLookup
	frontendURL string
}

func NewCalendarController(calendar CalendarConnector, accounts ProfileLookup, frontendURL string) *CalendarController {
	return &CalendarController{
		calendar:    calendar,
		accounts:    accounts,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// Connect returns the Google consent URL for the caller.
func (h *CalendarController) Connect(c *fiber.Ctx) error {
	url, err := h.calendar.AuthURL(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}

// Callback finishes the consent flow and sends the browser back to the
// user's dashboard with the outcome in the query string.
func (h *CalendarController) Callback(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if reason := c.Query("error"); reason != "" {
		logging.Warn().Str("reason", reason).Msg("Google consent was not granted")
	}

	userID, err := h.calendar.Exchange(ctx, c.Query("code"), c.Query("state"))
	outcome := "connected"
	if err != nil {
		outcome = "error"
		logging.Warn().Err(err).Uint("user_id", userID).Msg("Google Calendar connection failed")
	}
	return c.Redirect(h.dashboardURL(ctx, userID, outcome), fiber.StatusFound)
}

func (h *CalendarController) dashboardURL(ctx context.Context, userID uint, outcome string) string {
	if userID == 0 {
		return fmt.Sprintf("%s/dashboard?calendar=%s", h.frontendURL, outcome)
	}
	user, err := h.accounts.Profile(ctx, userID)
	if err != nil {
		return fmt.Sprintf("%s/dashboard?calendar=%s", h.frontendURL, outcome)
	}
	return fmt.Sprintf("%s/dashboard/%s?calendar=%s", h.frontendURL, strings.ToLower(string(user.Role)), outcome)
}

func (h *CalendarController) Status(c *fiber.Ctx) error {
	connected, err := h.calendar.HasConnection(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"configured": h.calendar.Enabled(),
		"connected":  connected,
	})
}

func (h *CalendarController) Disconnect(c *fiber.Ctx) error {
	if err := h.calendar.Disconnect(c.UserContext(), middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Google Calendar disconnected"})
}
