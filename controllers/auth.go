package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/middleware"
	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/services"
)

type AuthController struct {
	accounts *services.AccountService
}

func NewAuthController(accounts *services.AccountService) *AuthController {
	return &AuthController{accounts: accounts}
}

// Register handles customer and provider sign-up
func (h *AuthController) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.Role = models.Role(strings.ToUpper(string(in.Role)))

	user, err := h.accounts.Register(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful. Check your email for the verification code.",
		"user":    user,
	})
}

func (h *AuthController) VerifyEmail(c *fiber.Ctx) error {
	var in struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.accounts.VerifyEmail(c.UserContext(), in.Email, in.OTP); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Email verified successfully"})
}

func (h *AuthController) ResendOTP(c *fiber.Ctx) error {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.accounts.ResendOTP(c.UserContext(), in.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Verification code sent"})
}

// Login accepts either a username or an email as the identifier
func (h *AuthController) Login(c *fiber.Ctx) error {
	var in struct {
		Identifier string `json:"identifier"`
		Email      string `json:"email"`
		Username   string `json:"username"`
		Password   string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	identifier := in.Identifier
	if identifier == "" {
		identifier = in.Email
	}
	if identifier == "" {
		identifier = in.Username
	}

	result, err := h.accounts.Login(c.UserContext(), identifier, in.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *AuthController) RefreshToken(c *fiber.Ctx) error {
	var in struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	token, err := h.accounts.Refresh(c.UserContext(), in.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// GetProfile returns the caller's own account
func (h *AuthController) GetProfile(c *fiber.Ctx) error {
	user, err := h.accounts.Profile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *AuthController) UpdateProfile(c *fiber.Ctx) error {
	var in services.UpdateProfileInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := h.accounts.UpdateProfile(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *AuthController) DeleteAccount(c *fiber.Ctx) error {
	if err := h.accounts.DeleteSelf(c.UserContext(), middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}

// ListUsers is the admin user listing, filtered by ?role= and ?vettedStatus=
func (h *AuthController) ListUsers(c *fiber.Ctx) error {
	filter := models.UserFilter{
		Role:         models.Role(strings.ToUpper(c.Query("role"))),
		VettedStatus: models.VettedStatus(strings.ToUpper(c.Query("vettedStatus"))),
		Search:       c.Query("search"),
	}
	users, err := h.accounts.AdminList(c.UserContext(), middleware.UserID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *AuthController) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.accounts.AdminDelete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
